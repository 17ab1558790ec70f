package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/harrison/toolbelt/internal/config"
	"github.com/harrison/toolbelt/internal/filelock"
	"github.com/harrison/toolbelt/internal/templates"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the 'toolbelt init' command
func NewInitCommand(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter toolbelt.yaml in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(app.WorkDir, config.FileName)

			content, err := templates.Default().RenderFile("init/toolbelt.yaml", &templates.Context{
				Extra: map[string]any{"project": filepath.Base(app.WorkDir)},
			})
			if err != nil {
				return err
			}

			if err := filelock.WriteFile(path, []byte(content), force); err != nil {
				if errors.Is(err, filelock.ErrExists) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
