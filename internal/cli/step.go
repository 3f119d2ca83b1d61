package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func stepCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "step <id>",
		Short: "Run a single demo step (see `fitdemo steps` for ids)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			demo, err := loadDemo(cmd, opts)
			if err != nil {
				return err
			}
			defer demo.Close()

			res, err := demo.seq.RunStep(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			records := demo.session.Log().Records()
			if format == "json" {
				if err := printJSON(out, map[string]any{"step": res, "records": records}); err != nil {
					return err
				}
			} else {
				printRecords(out, records)
			}

			if !res.Succeeded {
				return fmt.Errorf("step %s failed", res.StepID)
			}
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}
