package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"syscall"

	"github.com/harrison/toolbelt/internal/models"
)

// InterruptedCode is reported when the child was killed because the user
// interrupted toolbelt. It cannot collide with a real exit status.
const InterruptedCode = -1

// Logger is the subset of logger.ConsoleLogger used by Runner.
type Logger interface {
	Debugf(format string, args ...any)
	Tracef(format string, args ...any)
}

// RunOptions controls a single Run call.
type RunOptions struct {
	// Capture collects stdout/stderr into the result instead of streaming
	// them to the terminal.
	Capture bool

	// Env holds extra environment variables layered over os.Environ().
	Env map[string]string

	// Dir is the working directory (defaults to the current one).
	Dir string

	// ExitOnError turns a non-zero exit into a *models.ExitError.
	ExitOnError bool
}

// Runner executes command text through a shell.
type Runner struct {
	// Shell is the shell binary. Empty means DefaultShell().
	Shell string

	// Pretend prints non-captured commands instead of running them.
	Pretend bool

	// Color enables highlighting of pretend output.
	Color bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    Logger
}

// NewRunner returns a Runner wired to the process's standard streams.
func NewRunner(shell string) *Runner {
	return &Runner{
		Shell:  shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes command and waits for it to finish.
//
// The returned error is non-nil only when the shell could not be started,
// or when opts.ExitOnError is set and the command failed (*models.ExitError).
func (r *Runner) Run(ctx context.Context, command string, opts RunOptions) (models.ExecResult, error) {
	result := models.ExecResult{Command: command}

	if r.Pretend && !opts.Capture {
		fmt.Fprintln(r.stderr(), "+ "+r.display(command))
		return result, nil
	}

	sh := r.Shell
	if sh == "" {
		sh = DefaultShell()
	}
	if r.Log != nil {
		r.Log.Tracef("%s -c %q", sh, command)
	}

	cmd := exec.Command(sh, "-c", command)
	cmd.Dir = opts.Dir
	cmd.Env = mergeEnv(os.Environ(), opts.Env)

	var stdout, stderr bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdin = r.Stdin
		cmd.Stdout = r.stdout()
		cmd.Stderr = r.stderr()
	}

	code, err := wait(ctx, cmd)
	if err != nil {
		result.ReturnCode = 127
		return result, fmt.Errorf("start %s: %w", sh, err)
	}

	result.ReturnCode = code
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if r.Log != nil {
		r.Log.Debugf("command exited with code %d", code)
	}

	if opts.ExitOnError && result.Failed() {
		return result, &models.ExitError{Code: code}
	}
	return result, nil
}

// wait starts cmd and blocks until it exits. An interrupt or a cancelled
// context kills the child and yields InterruptedCode.
func wait(ctx context.Context, cmd *exec.Cmd) (int, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		return exitCode(err), nil
	case <-sigCh:
	case <-ctx.Done():
	}

	_ = cmd.Process.Kill()
	<-done
	return InterruptedCode, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		// A signal death becomes 128+N, leaving -1 to InterruptedCode.
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return ee.ExitCode()
	}
	return 1
}

func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := append([]string{}, base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

func (r *Runner) display(command string) string {
	if r.Color {
		return Highlight(command)
	}
	return command
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
