package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, `log_level: debug
scripts_dir: tools/scripts
history:
  enabled: true
scripts:
  hello:
    command: echo hi
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Root != tmpDir {
		t.Errorf("Root = %q, want %q", cfg.Root, tmpDir)
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
	if !cfg.GetBool("history.enabled", false) {
		t.Error("history.enabled = false, want true")
	}
	if got := cfg.GetString("scripts.hello.command", ""); got != "echo hi" {
		t.Errorf("scripts.hello.command = %q, want %q", got, "echo hi")
	}
	if got := cfg.GetPath("scripts_dir", ""); got != filepath.Join(tmpDir, "tools", "scripts") {
		t.Errorf("GetPath(scripts_dir) = %q", got)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := Load("/nonexistent/path/toolbelt.yaml")
	if err != nil {
		t.Fatalf("Load() should not error on missing file, got: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
}

// TestLoadConfigInvalidYAML tests error handling for malformed YAML
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "scripts: [this is not valid\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		wantErr bool
	}{
		{name: "empty", data: nil, wantErr: false},
		{name: "bad log level", data: map[string]any{"log_level": "loud"}, wantErr: true},
		{name: "scripts not a map", data: map[string]any{"scripts": []any{"a"}}, wantErr: true},
		{name: "history not a map", data: map[string]any{"history": true}, wantErr: true},
		{name: "valid", data: map[string]any{"log_level": "error", "scripts": map[string]any{}}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New("/proj", tt.data).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetDefaults(t *testing.T) {
	cfg := New("/proj", map[string]any{
		"lint":  map[string]any{"paths": "src", "strict": "yes"},
		"count": 3,
	})

	if got := cfg.Get("lint.missing", "def"); got != "def" {
		t.Errorf("Get(lint.missing) = %v, want def", got)
	}
	if got := cfg.Get("count.deeper", 7); got != 7 {
		t.Errorf("Get(count.deeper) = %v, want 7", got)
	}
	if got := cfg.GetString("count", ""); got != "3" {
		t.Errorf("GetString(count) = %q, want 3", got)
	}
	if got := cfg.GetBool("lint.strict", true); got != true {
		t.Errorf("GetBool on non-bool should return default")
	}
	if got := cfg.GetStringSlice("lint.paths", nil); !reflect.DeepEqual(got, []string{"src"}) {
		t.Errorf("GetStringSlice(lint.paths) = %v, want [src]", got)
	}
	if got := cfg.GetMap("lint"); got == nil {
		t.Error("GetMap(lint) = nil")
	}
	if got := cfg.GetPath("missing", ""); got != "" {
		t.Errorf("GetPath(missing) = %q, want empty", got)
	}
}

func TestProjPath(t *testing.T) {
	cfg := New("/proj", nil)

	if got := cfg.ProjPath("src", "a.py"); got != "/proj/src/a.py" {
		t.Errorf("ProjPath = %q", got)
	}
	if got := cfg.ProjPath("/abs/../x"); got != "/x" {
		t.Errorf("ProjPath(abs) = %q", got)
	}
	if got := cfg.HistoryDBPath(); got != "/proj/.toolbelt/history.db" {
		t.Errorf("HistoryDBPath() = %q", got)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "log_level: info\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found != path {
		t.Errorf("Find() = %q, want %q", found, path)
	}

	cfg, err := LoadFromDir(nested)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Root != root {
		t.Errorf("Root = %q, want %q", cfg.Root, root)
	}
}

func TestLoadFromDirEnvOverride(t *testing.T) {
	other := t.TempDir()
	path := writeConfig(t, other, "log_level: trace\n")
	t.Setenv(EnvConfig, path)

	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.LogLevel() != "trace" {
		t.Errorf("LogLevel() = %q, want trace", cfg.LogLevel())
	}
}

func TestLoadFromDirWithoutConfig(t *testing.T) {
	t.Setenv(EnvConfig, "")
	dir := t.TempDir()

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Root != dir || cfg.Path != "" {
		t.Errorf("got Root=%q Path=%q", cfg.Root, cfg.Path)
	}
}
