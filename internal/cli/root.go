package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/fitdemo/internal/ui/tui"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	baseURL    string
	delay      time.Duration
	debug      bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "fitdemo",
		Short:        "fitdemo walks through the fitness tracker API, step by step",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			demo, err := loadDemo(cmd, opts)
			if err != nil {
				return err
			}
			defer demo.Close()

			return tui.Run(tui.Deps{
				Sequencer:   demo.seq,
				ConfigRoot:  demo.root,
				ConfigFound: demo.configFound,
				LogPath:     demo.logPath,
				Logger:      demo.log,
				Debug:       opts.debug,
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to fitdemo.yaml (default: search upward from the working directory)")
	pf.StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides fitdemo.yaml)")
	pf.DurationVar(&opts.delay, "delay", 0, "pause before each step of a full demo (overrides fitdemo.yaml)")
	pf.BoolVar(&opts.debug, "debug", false, "enable verbose logging to .fitdemo/logs/fitdemo.log")

	cmd.AddCommand(
		runCmd(opts),
		stepCmd(opts),
		stepsCmd(opts),
		initCmd(),
		mockCmd(opts),
		versionCmd(),
	)
	return cmd
}
