package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/harrison/toolbelt/internal/config"
	"github.com/harrison/toolbelt/internal/fileutil"
	"gopkg.in/yaml.v3"
)

// scriptFilePatterns select script declarations inside scripts_dir.
var scriptFilePatterns = []string{"*.yaml", "*.yml"}

// hiddenPatterns prune dot files and directories at any depth.
var hiddenPatterns = []string{"/.*", "/*/.*"}

// Discover loads one script per YAML file below dir. The file name is the
// script name and its parent directories, relative to dir, become the
// command group. Hidden files and directories are skipped. A missing dir
// yields no scripts.
func Discover(dir string) ([]*Definition, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scripts dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: scripts_dir %s is not a directory", ErrInvalidConfig, dir)
	}

	paths, err := fileutil.Collect(dir, scriptFilePatterns, hiddenPatterns)
	if err != nil {
		return nil, fmt.Errorf("scan scripts dir: %w", err)
	}

	var defs []*Definition
	for _, path := range paths {
		if fi, err := os.Stat(path); err != nil || fi.IsDir() {
			continue
		}
		def, err := loadFile(dir, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func loadFile(dir, path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return nil, fmt.Errorf("relative script path: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

	def, err := FromConfig(name, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if parent := filepath.Dir(rel); parent != "." {
		def.Group = strings.Split(filepath.ToSlash(parent), "/")
	}
	return def, nil
}

// Load returns every script of the project: the inline "scripts" mapping
// followed by the files discovered in "scripts_dir", each part sorted by
// command path.
func Load(conf *config.Config) ([]*Definition, error) {
	inline := conf.GetMap("scripts")
	names := make([]string, 0, len(inline))
	for name := range inline {
		names = append(names, name)
	}
	slices.Sort(names)

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		raw, ok := inline[name].(map[string]any)
		if !ok {
			if inline[name] != nil {
				return nil, fmt.Errorf("%w: script %s must be a mapping, got %T", ErrInvalidConfig, name, inline[name])
			}
			raw = map[string]any{}
		}
		def, err := FromConfig(name, raw)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	if dir := conf.GetPath("scripts_dir", ""); dir != "" {
		found, err := Discover(dir)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(found, func(a, b *Definition) int {
			return strings.Compare(a.Path(), b.Path())
		})
		defs = append(defs, found...)
	}
	return defs, nil
}
