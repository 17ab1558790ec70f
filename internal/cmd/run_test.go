package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/toolbelt/internal/models"
	"github.com/harrison/toolbelt/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripts(defs map[string]any) map[string]any {
	return map[string]any{"scripts": defs}
}

func TestRunPretend(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"hello": map[string]any{"command": "echo hi"},
	}))

	require.NoError(t, app.execute(t, "run", "hello", "--pretend"))
	assert.Equal(t, "echo hi\n", app.out.String())
}

func TestRunLive(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"hello": map[string]any{"command": "echo hi from {{ .script.name }}"},
	}))

	require.NoError(t, app.execute(t, "run", "hello"))
	assert.Equal(t, "hi from hello\n", app.out.String())
}

func TestRunExitCodes(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"three": map[string]any{"command": "exit 3", "success_exit_codes": []any{0, 3}},
		"five":  map[string]any{"command": "exit 5", "success_exit_codes": []any{0}},
	}))

	assert.NoError(t, app.execute(t, "run", "three"))

	err := app.execute(t, "run", "five")
	var exitErr *models.ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 5, exitErr.Code)
}

func TestRunRootCLI(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"fmt": map[string]any{"command": "echo formatted", "root_cli": true},
	}))

	require.NoError(t, app.execute(t, "fmt"))
	assert.Equal(t, "formatted\n", app.out.String())
}

func TestRunDiscoveredScript(t *testing.T) {
	app := newTestApp(t, map[string]any{"scripts_dir": "scripts"})
	app.write(t, "scripts/lint/go.yaml", "command: echo linting go\n")

	require.NoError(t, app.execute(t, "run", "lint", "go"))
	assert.Equal(t, "linting go\n", app.out.String())
}

func TestRunVerboseRaisesLogLevel(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"hello": map[string]any{"command": "true"},
	}))

	require.NoError(t, app.execute(t, "run", "hello", "-vv"))
	assert.Contains(t, app.err.String(), "script hello exited with code 0")
}

func TestRunRecordsHistory(t *testing.T) {
	app := newTestApp(t, map[string]any{
		"history": map[string]any{"enabled": true},
		"scripts": map[string]any{"ok": map[string]any{"command": "true"}},
	})

	require.NoError(t, app.execute(t, "run", "ok"))
	require.NoError(t, app.Close())

	app.out.Reset()
	require.NoError(t, app.execute(t, "history"))
	assert.Contains(t, app.out.String(), "ok")
	assert.NotContains(t, app.out.String(), "No runs recorded")
}

func TestRunWritesRunLog(t *testing.T) {
	app := newTestApp(t, map[string]any{
		"logs":    map[string]any{"enabled": true},
		"scripts": map[string]any{"hello": map[string]any{"command": "echo logged output"}},
	})

	require.NoError(t, app.execute(t, "run", "hello"))
	assert.Equal(t, "logged output\n", app.out.String())

	data, err := os.ReadFile(filepath.Join(app.Conf.Root, ".toolbelt", "logs", "latest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "logged output\n")
	assert.Contains(t, string(data), "hello finished")
}

func TestRunPretendSkipsRunLog(t *testing.T) {
	app := newTestApp(t, map[string]any{
		"logs":    map[string]any{"enabled": true},
		"scripts": map[string]any{"hello": map[string]any{"command": "echo hi"}},
	})

	require.NoError(t, app.execute(t, "run", "hello", "--pretend"))
	assert.NoDirExists(t, filepath.Join(app.Conf.Root, ".toolbelt", "logs"))
}

func TestInvalidScriptAbortsStartup(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"broken": map[string]any{"about": "no command"},
	}))

	_, err := NewRootCommand(app.App)
	assert.ErrorIs(t, err, script.ErrInvalidConfig)
}

func TestScriptCollidingWithBuiltin(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"clean": map[string]any{"command": "rm -rf build", "root_cli": true},
	}))

	_, err := NewRootCommand(app.App)
	assert.ErrorIs(t, err, script.ErrNameCollision)
}
