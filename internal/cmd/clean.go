package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/toolbelt/internal/fileutil"
	"github.com/spf13/cobra"
)

// Defaults for the clean command, overridable with clean.patterns and
// clean.exclude.
var (
	defaultCleanPatterns = []string{"*__pycache__", "*.py[cod]", "*.swp", "*.egg-info", "*/.pytest_cache"}
	defaultCleanExclude  = []string{"/.git/", "/.venv/", "/node_modules/"}
)

// NewCleanCommand creates the 'toolbelt clean' command
func NewCleanCommand(app *App) *cobra.Command {
	var pretend bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build and editor junk from the project",
		Long: `Remove files and directories matching clean.patterns from the project
tree, skipping anything matched by clean.exclude.

Defaults:
  patterns: ` + strings.Join(defaultCleanPatterns, " ") + `
  exclude:  ` + strings.Join(defaultCleanExclude, " "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := app.Conf.GetStringSlice("clean.patterns", defaultCleanPatterns)
			exclude := app.Conf.GetStringSlice("clean.exclude", defaultCleanExclude)

			seq, err := fileutil.Walk(app.Conf.Root, patterns, exclude)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var removed []string
			for path := range seq {
				if underAny(path, removed) {
					continue
				}
				rel, _ := filepath.Rel(app.Conf.Root, path)

				if pretend {
					fmt.Fprintf(out, "would remove %s\n", rel)
				} else {
					if err := os.RemoveAll(path); err != nil {
						return fmt.Errorf("remove %s: %w", rel, err)
					}
					fmt.Fprintf(out, "removed %s\n", rel)
				}
				removed = append(removed, path)
			}

			app.Log.Infof("clean matched %d paths", len(removed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretend, "pretend", false, "List what would be removed without deleting")

	return cmd
}

// underAny reports whether path lies inside one of dirs.
func underAny(path string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
