package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/fitdemo/internal/infra/fsworkspace"
	"github.com/aalvaropc/fitdemo/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Write a starter fitdemo.yaml and .gitignore entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewInitConfig(fsworkspace.NewInitializer())
			if err := uc.Execute(path, force); err != nil {
				return err
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fitdemo project at %s\n", abs)
			return nil
		},
	}

	c.Flags().StringVarP(&path, "path", "p", ".", "Directory to initialize")
	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing fitdemo.yaml")
	return c
}
