package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/infra/configfinder"
	"github.com/aalvaropc/fitdemo/internal/usecase"
)

func stepsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the demo steps in run order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, cfg, err := resolveConfig(configfinder.NewFinder(), opts.configPath)
			if err != nil {
				return err
			}
			printSteps(cmd.OutOrStdout(), usecase.DefaultSteps(cfg.Endpoints))
			return nil
		},
	}
}

func printSteps(w io.Writer, steps []domain.StepSpec) {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "ID", "Title", "Method", "Endpoint", "Auth"})
	for i, st := range steps {
		auth := ""
		if st.RequiresAuth {
			auth = "bearer"
		}
		tw.AppendRow(table.Row{i + 1, st.ID, st.Title, string(st.Method), st.Endpoint, auth})
	}
	fmt.Fprintln(w, tw.Render())
}
