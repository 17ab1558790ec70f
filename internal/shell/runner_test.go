package shell

import (
	"bytes"
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/harrison/toolbelt/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*Runner, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Runner{Shell: "/bin/sh", Stdout: stdout, Stderr: stderr}, stdout, stderr
}

func TestRunExitCode(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), "exit 3", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ReturnCode)
	assert.True(t, res.Failed())
	assert.Equal(t, "exit 3", res.Command)
}

func TestRunStreamsOutput(t *testing.T) {
	r, stdout, stderr := newTestRunner()

	res, err := r.Run(context.Background(), "echo out; echo err >&2", RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
	assert.Empty(t, res.Stdout)
}

func TestRunCapture(t *testing.T) {
	r, stdout, _ := newTestRunner()

	res, err := r.Run(context.Background(), "echo $GREETING", RunOptions{
		Capture: true,
		Env:     map[string]string{"GREETING": "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, stdout.String())
}

func TestRunDir(t *testing.T) {
	r, _, _ := newTestRunner()
	dir := t.TempDir()

	res, err := r.Run(context.Background(), "pwd -P", RunOptions{Capture: true, Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "/")
	assert.True(t, res.Succeeded())
}

func TestRunExitOnError(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), "exit 4", RunOptions{ExitOnError: true})
	var exitErr *models.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 4, exitErr.Code)
	assert.Equal(t, 4, res.ReturnCode)
}

func TestRunCancelKillsChild(t *testing.T) {
	r, _, _ := newTestRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := r.Run(ctx, "sleep 10", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, InterruptedCode, res.ReturnCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunSignalledChildIsNotInterrupt(t *testing.T) {
	r, _, _ := newTestRunner()

	res, err := r.Run(context.Background(), "kill -TERM $$", RunOptions{Capture: true})
	require.NoError(t, err)
	assert.Equal(t, 128+int(syscall.SIGTERM), res.ReturnCode)
	assert.NotEqual(t, InterruptedCode, res.ReturnCode)
}

func TestRunMissingShell(t *testing.T) {
	r := &Runner{Shell: "/definitely/not/a/shell"}

	_, err := r.Run(context.Background(), "true", RunOptions{})
	assert.Error(t, err)
}

func TestRunPretend(t *testing.T) {
	r, stdout, stderr := newTestRunner()
	r.Pretend = true

	res, err := r.Run(context.Background(), "rm -rf build", RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "+ rm -rf build\n", stderr.String())
	assert.Empty(t, stdout.String())

	// Captured commands still run: they only read state.
	res, err = r.Run(context.Background(), "echo real", RunOptions{Capture: true})
	require.NoError(t, err)
	assert.Equal(t, "real\n", res.Stdout)
}

func TestDefaultShell(t *testing.T) {
	t.Setenv("SHELL", "")
	assert.Equal(t, FallbackShell, DefaultShell())

	t.Setenv("SHELL", "/no/such/shell")
	assert.Equal(t, FallbackShell, DefaultShell())

	t.Setenv("SHELL", "/bin/sh")
	assert.Equal(t, "/bin/sh", DefaultShell())
}
