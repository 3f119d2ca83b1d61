package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/fitdemo/internal/infra/configfinder"
	"github.com/aalvaropc/fitdemo/internal/infra/logger"
	"github.com/aalvaropc/fitdemo/internal/infra/mockapi"
)

const shutdownTimeout = 5 * time.Second

func mockCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var seedUser string
	var seedPassword string
	var noSeed bool

	c := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory fitness tracker API for offline demos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _, _, err := resolveConfig(configfinder.NewFinder(), opts.configPath)
			if err != nil {
				return err
			}
			if cleanup, lerr := logger.Setup(logger.Config{Root: root, Debug: opts.debug}); lerr == nil {
				defer func() { _ = cleanup() }()
			}

			api := mockapi.New(mockapi.WithLogger(logger.L()))
			if !noSeed {
				if err := api.SeedUser(seedUser, seedPassword); err != nil {
					return fmt.Errorf("seed user %q: %w", seedUser, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mock API listening on http://%s%s\n", displayAddr(addr), mockapi.Prefix)
			if !noSeed {
				fmt.Fprintf(out, "Seeded user: %s\n", seedUser)
			}
			if logger.IsReady() == nil {
				fmt.Fprintf(out, "Request log: %s\n", logger.Path())
			}
			return serve(ctx, &http.Server{
				Addr:              addr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}

	c.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	c.Flags().StringVar(&seedUser, "seed-user", "demo_user", "Username created at startup for the login step")
	c.Flags().StringVar(&seedPassword, "seed-password", "demo123456", "Password of the seeded user")
	c.Flags().BoolVar(&noSeed, "no-seed", false, "Start with an empty user store")
	return c
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("mockapi.shutdown", "addr", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
