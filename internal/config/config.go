package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/toolbelt/internal/logger"
	"gopkg.in/yaml.v3"
)

// Default values for keys toolbelt reads itself.
const (
	DefaultLogLevel      = "warn"
	DefaultHistoryDBPath = ".toolbelt/history.db"
)

// Config is the parsed project configuration. Values are kept as the generic
// YAML tree so scripts can reference arbitrary keys from templates.
type Config struct {
	// Path is the file the configuration was read from ("" when none).
	Path string

	// Root is the project root that relative paths resolve against.
	Root string

	data map[string]any
}

// New returns a Config rooted at root holding data. A nil data map is
// treated as an empty configuration.
func New(root string, data map[string]any) *Config {
	if data == nil {
		data = map[string]any{}
	}
	return &Config{Root: root, data: data}
}

// Load reads configuration from path. A missing file yields an empty
// configuration rooted at the file's directory; a malformed one is an error.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	root := filepath.Dir(absPath)

	data, err := os.ReadFile(absPath)
	if os.IsNotExist(err) {
		return New(root, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", absPath, err)
	}

	cfg := New(root, raw)
	cfg.Path = absPath
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", absPath, err)
	}
	return cfg, nil
}

// LoadFromDir loads the configuration that governs dir: $TOOLBELT_CONFIG if
// set, otherwise the nearest toolbelt.yaml in dir or one of its parents.
// Without any file the configuration is empty and rooted at dir.
func LoadFromDir(dir string) (*Config, error) {
	if env := os.Getenv(EnvConfig); env != "" {
		return Load(env)
	}

	path, err := Find(dir)
	if err != nil {
		absDir, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, fmt.Errorf("resolve project dir: %w", absErr)
		}
		return New(absDir, nil), nil
	}
	return Load(path)
}

// Raw returns the whole configuration tree.
func (c *Config) Raw() map[string]any {
	return c.data
}

// Get returns the value at a dotted key such as "history.enabled", or def
// when any segment is missing.
func (c *Config) Get(key string, def any) any {
	var cur any = c.data
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur, ok = m[part]
		if !ok {
			return def
		}
	}
	if cur == nil {
		return def
	}
	return cur
}

// GetString returns the string at key, or def.
func (c *Config) GetString(key, def string) string {
	switch v := c.Get(key, def).(type) {
	case string:
		return v
	case nil:
		return def
	default:
		return fmt.Sprint(v)
	}
}

// GetBool returns the bool at key, or def when missing or not a bool.
func (c *Config) GetBool(key string, def bool) bool {
	if v, ok := c.Get(key, def).(bool); ok {
		return v
	}
	return def
}

// GetStringSlice returns the list at key. A scalar string is treated as a
// one-element list.
func (c *Config) GetStringSlice(key string, def []string) []string {
	switch v := c.Get(key, nil).(type) {
	case nil:
		return def
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return def
	}
}

// GetMap returns the mapping at key, or nil.
func (c *Config) GetMap(key string) map[string]any {
	m, _ := c.Get(key, nil).(map[string]any)
	return m
}

// GetPath returns the path at key resolved against the project root.
func (c *Config) GetPath(key, def string) string {
	p := c.GetString(key, def)
	if p == "" {
		return ""
	}
	return c.ProjPath(p)
}

// ProjPath joins parts onto the project root. Absolute paths are returned
// cleaned and unchanged.
func (c *Config) ProjPath(parts ...string) string {
	p := filepath.Join(parts...)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// LogLevel returns the configured base log level.
func (c *Config) LogLevel() string {
	return c.GetString("log_level", DefaultLogLevel)
}

// Validate checks the keys toolbelt interprets itself.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel()) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel())
	}

	if v, ok := c.data["scripts"]; ok && v != nil {
		if _, isMap := v.(map[string]any); !isMap {
			return fmt.Errorf("scripts must be a mapping of name to script, got %T", v)
		}
	}

	if v, ok := c.data["history"]; ok && v != nil {
		if _, isMap := v.(map[string]any); !isMap {
			return fmt.Errorf("history must be a mapping, got %T", v)
		}
	}

	return nil
}
