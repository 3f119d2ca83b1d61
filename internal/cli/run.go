package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/fitdemo/internal/domain"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "run",
		Short: "Run the full demo against the configured API and print the result log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			demo, err := loadDemo(cmd, opts)
			if err != nil {
				return err
			}
			defer demo.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			summary, runErr := demo.seq.RunFullDemo(ctx)
			if err := printRun(cmd.OutOrStdout(), summary, demo.session.Log().Records(), format); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return fmt.Errorf("demo failed (%d of %d step(s) failed)", summary.Failed, len(summary.Steps))
			}
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printRun(w io.Writer, summary domain.DemoSummary, records []domain.ResultRecord, format string) error {
	switch format {
	case "json":
		return printJSON(w, map[string]any{
			"summary": summary,
			"records": records,
		})
	case "pretty", "":
		printPrettyRun(w, summary, records)
		return nil
	default:
		return checkFormat(format)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPrettyRun(w io.Writer, summary domain.DemoSummary, records []domain.ResultRecord) {
	total := summary.Finished.Sub(summary.Started)
	if summary.Started.IsZero() || summary.Finished.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Session:  %s\n", summary.SessionID)
	fmt.Fprintf(w, "Started:  %s\n", summary.Started.Format(time.RFC3339))
	fmt.Fprintf(w, "Finished: %s\n", summary.Finished.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total.Round(time.Millisecond))
	fmt.Fprintf(w, "Failed:   %d/%d\n\n", summary.Failed, len(summary.Steps))

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Step", "Status", "HTTP", "Token"})
	for i, st := range summary.Steps {
		token := ""
		if st.TokenSaved {
			token = "saved"
		}
		tw.AppendRow(table.Row{i + 1, st.StepID, statusLabel(st.Succeeded), httpStatus(st.Status), token})
	}
	fmt.Fprintln(w, tw.Render())
	fmt.Fprintln(w)

	printRecords(w, records)
}

func printRecords(w io.Writer, records []domain.ResultRecord) {
	for _, r := range records {
		fmt.Fprintf(w, "[%s] %s  %s\n", statusLabel(r.Succeeded), r.Title, r.RecordedAt.Format(time.TimeOnly))
		for _, line := range strings.Split(r.Payload, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}
}

func statusLabel(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}

func httpStatus(code int) string {
	if code == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", code)
}
