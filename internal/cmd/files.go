package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/harrison/toolbelt/internal/files"
	"github.com/spf13/cobra"
)

// NewFilesCommand creates the 'toolbelt files' command, which prints the
// files a selection would pass to a script.
func NewFilesCommand(app *App) *cobra.Command {
	var (
		include   []string
		exclude   []string
		staged    bool
		untracked bool
		noIgnore  bool
		absolute  bool
	)

	cmd := &cobra.Command{
		Use:   "files [paths...]",
		Short: "Preview a file selection",
		Long: `Print the files selected by include/exclude globs, the same way a
script's "files" section selects them.

Patterns use shell globs where * also matches /. A leading / anchors a
pattern to the walked path. Excluded directories are not descended into.

Examples:
  toolbelt files src --include '*.py' --exclude '*test*'
  toolbelt files --staged --include '*.go'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			sel := files.NewSelection(args...)
			sel.Include = include
			sel.Exclude = exclude
			sel.OnlyStaged = staged
			sel.IncludeUntracked = untracked
			sel.UseIgnoreFile = !noIgnore

			if app.Git == nil && !staged {
				app.Log.Debugf("not in a git repository, ignoring .gitignore and untracked state")
				sel.UseIgnoreFile = false
				sel.IncludeUntracked = true
			}

			paths, err := app.Collector().Resolve(sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range paths {
				if !absolute {
					if rel, err := filepath.Rel(app.Conf.Root, p); err == nil {
						p = rel
					}
				}
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "Only list paths matching these globs")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, "Skip paths matching these globs")
	cmd.Flags().BoolVar(&staged, "staged", false, "Only list files staged in git")
	cmd.Flags().BoolVar(&untracked, "untracked", true, "Include files git does not track")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Do not apply .gitignore patterns")
	cmd.Flags().BoolVar(&absolute, "absolute", false, "Print absolute paths")

	return cmd
}
