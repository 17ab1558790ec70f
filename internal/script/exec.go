package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/harrison/toolbelt/internal/config"
	"github.com/harrison/toolbelt/internal/files"
	"github.com/harrison/toolbelt/internal/history"
	"github.com/harrison/toolbelt/internal/logger"
	"github.com/harrison/toolbelt/internal/models"
	"github.com/harrison/toolbelt/internal/shell"
	"github.com/harrison/toolbelt/internal/templates"
)

// Logger is the subset of logger.ConsoleLogger used by Runner.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Runner executes scripts. It implements Executor.
type Runner struct {
	Conf      *config.Config
	Shell     *shell.Runner
	Files     *files.Collector
	Templates *templates.Engine

	// History is optional.
	History Recorder

	Log Logger

	// Out receives pretend output.
	Out io.Writer

	// Color enables colour in templates and pretend output.
	Color bool
}

// Run renders def with values and executes it, or prints it in pretend
// mode. An exit code outside def.SuccessExitCodes is returned as a
// *models.ExitError carrying that code.
func (r *Runner) Run(ctx context.Context, def *Definition, values Values) error {
	log := r.logger()

	tctx, command, err := r.prepare(def, values)
	if err != nil {
		return err
	}

	if tctx.Runtime.Pretend {
		display := command
		if r.Color {
			display = shell.Highlight(command)
		}
		fmt.Fprintln(r.out(), display)
		return nil
	}

	helpers, err := r.engine().RenderHelpers(def.Use, templates.Dialect(r.shellPath()), tctx)
	if err != nil {
		return fmt.Errorf("script %s: %w", def.Path(), err)
	}

	log.Debugf("running script %s", def.Path())
	started := time.Now()
	sh := r.Shell
	if sh == nil {
		sh = shell.NewRunner("")
	}
	res, err := sh.Run(ctx, helpers+command, shell.RunOptions{Dir: r.Conf.Root})
	if err != nil {
		return fmt.Errorf("script %s: %w", def.Path(), err)
	}
	log.Debugf("script %s exited with code %d", def.Path(), res.ReturnCode)

	ok := def.Succeeded(res.ReturnCode)
	r.record(ctx, &history.Run{
		Script:    def.Path(),
		Command:   command,
		ExitCode:  res.ReturnCode,
		Success:   ok,
		StartedAt: started,
		Duration:  time.Since(started),
	})

	if !ok {
		if res.ReturnCode == shell.InterruptedCode {
			log.Warnf("script %s interrupted", def.Path())
		}
		return &models.ExitError{Code: res.ReturnCode}
	}
	return nil
}

// Render returns the command text def would run with values, without
// helpers and without executing anything.
func (r *Runner) Render(def *Definition, values Values) (string, error) {
	_, command, err := r.prepare(def, values)
	return command, err
}

// prepare builds the template context for one invocation and renders the
// command with it.
func (r *Runner) prepare(def *Definition, values Values) (*templates.Context, string, error) {
	rt := models.RuntimeContext{Color: r.Color}
	rt.Verbose, _ = values["verbose"].(int)
	rt.Pretend, _ = values["pretend"].(bool)

	tctx, err := r.buildContext(def, values, rt)
	if err != nil {
		return nil, "", err
	}
	command, err := r.render(def, tctx)
	if err != nil {
		return nil, "", err
	}
	return tctx, command, nil
}

func (r *Runner) buildContext(def *Definition, values Values, rt models.RuntimeContext) (*templates.Context, error) {
	opts := make(map[string]any, len(def.Options)+2)
	for _, o := range def.Options {
		opts[o.Key()] = o.Default
	}
	for k, v := range values {
		opts[k] = v
	}

	tctx := &templates.Context{
		Options:  opts,
		Script:   def.templateData(),
		Conf:     r.Conf.Raw(),
		Runtime:  rt,
		ProjPath: r.Conf.ProjPath,
	}

	if def.Files != nil {
		if r.Files == nil {
			return nil, fmt.Errorf("script %s: %w", def.Path(), files.ErrNoGit)
		}
		selected, err := r.Files.Resolve(def.Files)
		if err != nil {
			return nil, fmt.Errorf("script %s: collect files: %w", def.Path(), err)
		}
		tctx.Files = selected
		r.logger().Debugf("script %s selected %d files", def.Path(), len(selected))
	}
	return tctx, nil
}

// render resolves the command text, inline or from CommandFile, and
// renders it.
func (r *Runner) render(def *Definition, tctx *templates.Context) (string, error) {
	text := def.Command
	if def.CommandFile != "" {
		data, err := os.ReadFile(r.Conf.ProjPath(def.CommandFile))
		if err != nil {
			return "", fmt.Errorf("script %s: read command file: %w", def.Path(), err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("script %s: %w", def.Path(), ErrEmptyCommand)
	}

	out, err := r.engine().Render(text, tctx)
	if err != nil {
		return "", fmt.Errorf("script %s: %w", def.Path(), err)
	}
	return out, nil
}

func (r *Runner) record(ctx context.Context, run *history.Run) {
	if r.History == nil {
		return
	}
	if err := r.History.Record(ctx, run); err != nil {
		r.logger().Warnf("failed to record run of %s: %v", run.Script, err)
	}
}

func (r *Runner) engine() *templates.Engine {
	if r.Templates == nil {
		return templates.Default()
	}
	return r.Templates
}

func (r *Runner) shellPath() string {
	if r.Shell != nil && r.Shell.Shell != "" {
		return r.Shell.Shell
	}
	return shell.DefaultShell()
}

func (r *Runner) logger() Logger {
	if r.Log == nil {
		return logger.NoOpLogger{}
	}
	return r.Log
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}
