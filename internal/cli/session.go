package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/infra/configfinder"
	"github.com/aalvaropc/fitdemo/internal/infra/httpclient"
	"github.com/aalvaropc/fitdemo/internal/infra/httprunner"
	"github.com/aalvaropc/fitdemo/internal/infra/logger"
	"github.com/aalvaropc/fitdemo/internal/ports"
	"github.com/aalvaropc/fitdemo/internal/usecase"
)

// demoCtx is one wired demo session: config, logger, session and sequencer.
type demoCtx struct {
	root        string
	configFound bool
	cfg         domain.Config
	// logPath is empty when the log file could not be opened.
	logPath string

	session *domain.Session
	seq     *usecase.Sequencer
	log     *slog.Logger

	cleanup func() error
}

func (d *demoCtx) Close() {
	if d.cleanup != nil {
		_ = d.cleanup()
	}
}

func loadDemo(cmd *cobra.Command, opts *rootOptions) (*demoCtx, error) {
	root, found, cfg, err := resolveConfig(configfinder.NewFinder(), opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, &cfg)

	d := &demoCtx{root: root, configFound: found, cfg: cfg}
	if cleanup, lerr := logger.Setup(logger.Config{Root: root, Debug: opts.debug}); lerr == nil {
		d.cleanup = cleanup
	}
	if logger.IsReady() == nil {
		d.logPath = logger.Path()
	}
	d.log = logger.L()

	d.session = domain.NewSession(uuid.NewString(), cfg.BaseURL, domain.NewResultLog(cfg.LogCapacity))

	exec := httpclient.NewExecutor(httpclient.WithTimeout(cfg.Timeout))
	runner := httprunner.New(d.session,
		httprunner.WithExecutor(exec),
		httprunner.WithLogger(d.log),
	)
	d.seq = usecase.NewSequencer(usecase.DefaultSteps(cfg.Endpoints), runner, d.session,
		usecase.WithDelay(cfg.Delay),
		usecase.WithCredentials(cfg.Login),
		usecase.WithLogger(d.log),
	)

	d.log.Info("session.start",
		"session", d.session.ID,
		"base_url", cfg.BaseURL,
		"config_found", found,
		"root", root,
	)
	return d, nil
}

// resolveConfig returns the project root and its configuration. An explicit
// path must exist; otherwise a missing fitdemo.yaml means defaults rooted at
// the working directory.
func resolveConfig(loc ports.ConfigLocator, configFlag string) (root string, found bool, cfg domain.Config, err error) {
	if p := strings.TrimSpace(configFlag); p != "" {
		abs, aerr := filepath.Abs(p)
		if aerr != nil {
			return "", false, cfg, fmt.Errorf("invalid config path: %w", aerr)
		}
		cfg, err = configfinder.LoadConfigFile(abs)
		if err != nil {
			return "", false, cfg, err
		}
		return filepath.Dir(abs), true, cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", false, cfg, fmt.Errorf("get working directory: %w", err)
	}

	root, ferr := loc.FindRoot(wd)
	if ferr != nil {
		if domain.IsKind(ferr, domain.KindNotFound) {
			return wd, false, domain.DefaultConfig(), nil
		}
		return "", false, cfg, ferr
	}

	cfg, err = configfinder.LoadConfig(root)
	if err != nil {
		return "", false, cfg, err
	}
	return root, true, cfg, nil
}

func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *domain.Config) {
	if u := strings.TrimSpace(opts.baseURL); u != "" {
		cfg.BaseURL = u
	}
	changed := cmd.Flags().Changed("delay") || cmd.PersistentFlags().Changed("delay")
	if changed && opts.delay >= 0 {
		cfg.Delay = opts.delay
	}
}
