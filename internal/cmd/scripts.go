package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/toolbelt/internal/docs"
	"github.com/harrison/toolbelt/internal/filelock"
	"github.com/harrison/toolbelt/internal/script"
	"github.com/harrison/toolbelt/internal/templates"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewScriptsCommand creates the 'toolbelt scripts' parent command
func NewScriptsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "Inspect project scripts",
	}

	cmd.AddCommand(newScriptsListCommand(app))
	cmd.AddCommand(newScriptsShowCommand(app))
	cmd.AddCommand(newScriptsDocsCommand(app))
	cmd.AddCommand(newScriptsTemplatesCommand())

	return cmd
}

func newScriptsListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the declared scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := script.Load(app.Conf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(defs) == 0 {
				fmt.Fprintf(out, "No scripts declared in %s\n", configName(app))
				return nil
			}

			width := 0
			for _, def := range defs {
				width = max(width, len(invocation(def)))
			}

			name := color.New(color.FgCyan)
			if !app.Color {
				name.DisableColor()
			}
			for _, def := range defs {
				about, _, _ := strings.Cut(def.About, "\n")
				fmt.Fprintf(out, "  %s  %s\n", name.Sprintf("%-*s", width, invocation(def)), about)
			}
			return nil
		},
	}
}

func newScriptsShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <script> [subscript...]",
		Short: "Print the normalized declaration of a script",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := findScript(app, args)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(map[string]any{def.Path(): def.ToConfig()})
			if err != nil {
				return fmt.Errorf("marshal script: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newScriptsDocsCommand(app *App) *cobra.Command {
	var asHTML bool
	var output string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate a Markdown or HTML reference of the scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := script.Load(app.Conf)
			if err != nil {
				return err
			}

			text, err := docs.Markdown(Binary, projectName(app)+" scripts", defs)
			if err != nil {
				return err
			}
			if asHTML {
				if text, err = docs.HTML(text); err != nil {
					return err
				}
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}

			path := output
			if !filepath.IsAbs(path) {
				path = filepath.Join(app.WorkDir, path)
			}
			if err := filelock.WriteFile(path, []byte(text), true); err != nil {
				return err
			}
			app.Log.Infof("wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of Markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func newScriptsTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in templates",
		Long: `List the templates shipped with toolbelt. Those under helpers/ can be
prefixed to a script with "use", e.g. use: [header].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range templates.Default().Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func findScript(app *App, path []string) (*script.Definition, error) {
	defs, err := script.Load(app.Conf)
	if err != nil {
		return nil, err
	}
	want := strings.Join(path, " ")
	for _, def := range defs {
		if def.Path() == want {
			return def, nil
		}
	}
	return nil, fmt.Errorf("no script named %q", want)
}

func invocation(def *script.Definition) string {
	if def.RootCLI {
		return def.Path()
	}
	return "run " + def.Path()
}

func configName(app *App) string {
	if app.Conf.Path == "" {
		return "toolbelt.yaml (not found)"
	}
	return app.Conf.Path
}

func projectName(app *App) string {
	if name := app.Conf.GetString("project", ""); name != "" {
		return name
	}
	return filepath.Base(app.Conf.Root)
}
