package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScriptsList(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"lint": map[string]any{"command": "pylint", "about": "Lint sources\nLonger text."},
		"fmt":  map[string]any{"command": "black .", "root_cli": true},
	}))

	require.NoError(t, app.execute(t, "scripts", "list"))
	out := app.out.String()
	assert.Contains(t, out, "fmt")
	assert.Contains(t, out, "run lint")
	assert.Contains(t, out, "Lint sources")
	assert.NotContains(t, out, "Longer text.")
}

func TestScriptsListEmpty(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, app.execute(t, "scripts", "list"))
	assert.Contains(t, app.out.String(), "No scripts declared")
}

func TestScriptsShow(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"test": map[string]any{"command": "pytest", "success_exit_codes": "5"},
	}))

	require.NoError(t, app.execute(t, "scripts", "show", "test"))

	var shown map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(app.out.Bytes(), &shown))
	require.Contains(t, shown, "test")
	assert.Equal(t, "pytest", shown["test"]["command"])
	assert.Equal(t, []any{5}, shown["test"]["success_exit_codes"])
}

func TestScriptsShowUnknown(t *testing.T) {
	app := newTestApp(t, nil)
	assert.Error(t, app.execute(t, "scripts", "show", "nope"))
}

func TestScriptsDocs(t *testing.T) {
	app := newTestApp(t, map[string]any{
		"project": "demo",
		"scripts": map[string]any{"lint": map[string]any{"command": "pylint", "about": "Lint sources"}},
	})

	require.NoError(t, app.execute(t, "scripts", "docs"))
	assert.Contains(t, app.out.String(), "# demo scripts")
	assert.Contains(t, app.out.String(), "## `toolbelt run lint`")
}

func TestScriptsDocsHTMLToFile(t *testing.T) {
	app := newTestApp(t, scripts(map[string]any{
		"lint": map[string]any{"command": "pylint"},
	}))

	require.NoError(t, app.execute(t, "scripts", "docs", "--html", "--output", "docs/scripts.html"))

	data, err := os.ReadFile(filepath.Join(app.WorkDir, "docs", "scripts.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h2><code>toolbelt run lint</code></h2>")
	assert.Empty(t, app.out.String())
}

func TestScriptsTemplates(t *testing.T) {
	app := newTestApp(t, nil)

	require.NoError(t, app.execute(t, "scripts", "templates"))
	assert.Equal(t, []string{
		"docs/scripts.md",
		"helpers/fish/cprint.fish",
		"helpers/fish/header.fish",
		"helpers/sh/cprint.sh",
		"helpers/sh/header.sh",
		"init/toolbelt.yaml",
	}, lines(app.out.String()))
}
