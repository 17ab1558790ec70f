package cmd

import (
	"context"
	"io"

	"github.com/harrison/toolbelt/internal/logger"
	"github.com/harrison/toolbelt/internal/script"
	"github.com/harrison/toolbelt/internal/templates"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the group project scripts are attached to.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a project script",
		Long: `Run one of the scripts declared in toolbelt.yaml or scripts_dir.

Every script accepts -v/--verbose (repeatable) and --pretend, which prints
the rendered command instead of running it.

Examples:
  toolbelt run lint --fix
  toolbelt run test -k slow --pretend`,
	}
}

// scriptExecutor runs scripts with the collaborators of app.
type scriptExecutor struct {
	app *App
}

func (e *scriptExecutor) Run(ctx context.Context, def *script.Definition, values script.Values) error {
	verbose, _ := values["verbose"].(int)
	e.app.SetVerbosity(verbose)

	runner := &script.Runner{
		Conf:      e.app.Conf,
		Shell:     e.app.Shell,
		Files:     e.app.Collector(),
		Templates: templates.Default(),
		Log:       e.app.Log,
		Out:       e.app.Out,
		Color:     e.app.Color,
	}

	store, err := e.app.History()
	if err != nil {
		e.app.Log.Warnf("run history unavailable: %v", err)
	} else if store != nil {
		runner.History = store
	}

	if pretend, _ := values["pretend"].(bool); pretend || !e.app.Conf.GetBool("logs.enabled", false) {
		return runner.Run(ctx, def, values)
	}

	runLog, err := logger.NewFileLogger(e.app.Conf.GetPath("logs.dir", ".toolbelt/logs"), def.Path(), e.app.Log.Level())
	if err != nil {
		e.app.Log.Warnf("run log unavailable: %v", err)
		return runner.Run(ctx, def, values)
	}
	defer runLog.Close()

	sh := *e.app.Shell
	sh.Stdout = io.MultiWriter(sh.Stdout, runLog)
	sh.Stderr = io.MultiWriter(sh.Stderr, runLog)
	runner.Shell = &sh

	runLog.Infof("running %s", def.Path())
	err = runner.Run(ctx, def, values)
	if err != nil {
		runLog.Errorf("%s failed: %v", def.Path(), err)
	} else {
		runLog.Infof("%s finished", def.Path())
	}
	e.app.Log.Debugf("run log written to %s", runLog.Path())
	return err
}

func registerScripts(app *App, root, run *cobra.Command) error {
	defs, err := script.Load(app.Conf)
	if err != nil {
		return err
	}
	return script.RegisterAll(defs, root, run, &scriptExecutor{app: app})
}
