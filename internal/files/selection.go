// Package files decides which files a command operates on.
//
// A Selection names the paths to walk plus include/exclude globs, and can
// restrict the result to files staged in git. Collector combines it with
// the repository state and runs the filtered walk from package fileutil.
package files

import (
	"errors"
	"fmt"
)

// ErrInvalidSelection reports a malformed files section in the config.
var ErrInvalidSelection = errors.New("invalid files selection")

// Selection describes which files to collect. It is built once per
// invocation and not modified afterwards.
type Selection struct {
	// Paths are walked in order. Relative paths resolve against the project
	// root and may contain ** globs.
	Paths []string

	// Include restricts yielded paths to those matching a pattern.
	Include []string

	// Exclude prunes matching paths and directories from the walk.
	Exclude []string

	// OnlyStaged limits the result to files staged in git.
	OnlyStaged bool

	// IncludeUntracked keeps files git does not track yet.
	IncludeUntracked bool

	// UseIgnoreFile adds the repository ignore patterns to Exclude.
	UseIgnoreFile bool
}

// NewSelection returns a Selection over paths with the config defaults:
// untracked files included and ignore files honoured.
func NewSelection(paths ...string) *Selection {
	return &Selection{
		Paths:            paths,
		IncludeUntracked: true,
		UseIgnoreFile:    true,
	}
}

// ParseSelection builds a Selection from a "files" config mapping. Keys:
// paths, include, exclude (string or list), only_staged, untracked,
// use_gitignore (bool).
func ParseSelection(raw any) (*Selection, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping, got %T", ErrInvalidSelection, raw)
	}

	sel := NewSelection()
	var err error

	if sel.Paths, err = stringList(m, "paths"); err != nil {
		return nil, err
	}
	if len(sel.Paths) == 0 {
		return nil, fmt.Errorf("%w: paths must not be empty", ErrInvalidSelection)
	}
	if sel.Include, err = stringList(m, "include"); err != nil {
		return nil, err
	}
	if sel.Exclude, err = stringList(m, "exclude"); err != nil {
		return nil, err
	}
	if sel.OnlyStaged, err = boolValue(m, "only_staged", false); err != nil {
		return nil, err
	}
	if sel.IncludeUntracked, err = boolValue(m, "untracked", true); err != nil {
		return nil, err
	}
	if sel.UseIgnoreFile, err = boolValue(m, "use_gitignore", true); err != nil {
		return nil, err
	}

	return sel, nil
}

// ToConfig serializes the selection back into its config form.
func (s *Selection) ToConfig() map[string]any {
	return map[string]any{
		"paths":         toAnySlice(s.Paths),
		"include":       toAnySlice(s.Include),
		"exclude":       toAnySlice(s.Exclude),
		"only_staged":   s.OnlyStaged,
		"untracked":     s.IncludeUntracked,
		"use_gitignore": s.UseIgnoreFile,
	}
}

func stringList(m map[string]any, key string) ([]string, error) {
	switch v := m[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
		return append([]string{}, v...), nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s entries must be strings, got %T", ErrInvalidSelection, key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a string or list, got %T", ErrInvalidSelection, key, v)
	}
}

func boolValue(m map[string]any, key string, def bool) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidSelection, key, v)
	}
	return b, nil
}

func toAnySlice(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
