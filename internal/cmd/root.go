package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Binary is the command name shown in help and generated docs.
const Binary = "toolbelt"

// NewRootCommand builds the command tree, including one command per
// project script. Invalid scripts or name collisions fail here, before any
// command runs.
func NewRootCommand(app *App) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   Binary,
		Short: "Project scripts, file selection and housekeeping",
		Long: `toolbelt runs the scripts declared in toolbelt.yaml.

Each script is a shell command template with its own options. Scripts are
available under "toolbelt run", or directly under toolbelt when declared
with root_cli. Built-in commands list scripts, preview file selections and
clean up build junk.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints errors and maps exit codes
		SilenceErrors: true,
	}

	run := NewRunCommand()
	cmd.AddCommand(run)
	cmd.AddCommand(NewScriptsCommand(app))
	cmd.AddCommand(NewFilesCommand(app))
	cmd.AddCommand(NewCleanCommand(app))
	cmd.AddCommand(NewHistoryCommand(app))
	cmd.AddCommand(NewInitCommand(app))

	if err := registerScripts(app, cmd, run); err != nil {
		return nil, err
	}
	return cmd, nil
}
