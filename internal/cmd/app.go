package cmd

import (
	"io"
	"os"

	"github.com/harrison/toolbelt/internal/config"
	"github.com/harrison/toolbelt/internal/files"
	"github.com/harrison/toolbelt/internal/git"
	"github.com/harrison/toolbelt/internal/history"
	"github.com/harrison/toolbelt/internal/logger"
	"github.com/harrison/toolbelt/internal/shell"
)

// App is the state shared by every command of one toolbelt invocation.
type App struct {
	Conf *config.Config

	// WorkDir is the directory toolbelt was started in.
	WorkDir string

	Out io.Writer
	Err io.Writer

	// Color is set when Out is a terminal.
	Color bool

	Log   *logger.ConsoleLogger
	Shell *shell.Runner

	// Git is nil outside a git working tree.
	Git *git.Repo

	history *history.Store
}

// NewApp wires the collaborators for a project configuration.
func NewApp(conf *config.Config, workDir string, out, errOut io.Writer) *App {
	app := &App{
		Conf:    conf,
		WorkDir: workDir,
		Out:     out,
		Err:     errOut,
	}
	if f, ok := out.(*os.File); ok {
		app.Color = shell.Interactive(f)
	}

	app.Log = logger.NewConsoleLogger(errOut, conf.LogLevel())

	app.Shell = shell.NewRunner(conf.GetString("shell", ""))
	app.Shell.Stdout = out
	app.Shell.Stderr = errOut
	app.Shell.Color = app.Color
	app.Shell.Log = app.Log

	if root, ok := git.FindRoot(conf.Root); ok {
		app.Git = git.New(root, app.Shell)
	}
	return app
}

// SetVerbosity raises the log level by verbose steps for the rest of the
// invocation.
func (a *App) SetVerbosity(verbose int) {
	a.Log = logger.NewConsoleLogger(a.Err, logger.LevelForVerbosity(a.Conf.LogLevel(), verbose))
	a.Shell.Log = a.Log
}

// Collector returns a file collector for the project.
func (a *App) Collector() *files.Collector {
	if a.Git == nil {
		return files.NewCollector(a.Conf.Root, nil)
	}
	c := files.NewCollector(a.Conf.Root, a.Git)
	c.RepoRoot = a.Git.Root
	return c
}

// History returns the run history store, opening it on first use. It is
// nil when history.enabled is false.
func (a *App) History() (*history.Store, error) {
	if !a.Conf.GetBool("history.enabled", false) {
		return nil, nil
	}
	if a.history == nil {
		store, err := history.Open(a.Conf.HistoryDBPath())
		if err != nil {
			return nil, err
		}
		a.history = store
	}
	return a.history, nil
}

// Close releases resources opened during the invocation.
func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	err := a.history.Close()
	a.history = nil
	return err
}
