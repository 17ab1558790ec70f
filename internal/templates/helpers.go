package templates

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// Shell dialects helper functions are available in.
const (
	DialectSh   = "sh"
	DialectFish = "fish"
)

// helperDeps lists the helpers a helper calls itself.
var helperDeps = map[string][]string{
	"cprint": nil,
	"header": {"cprint"},
}

// HelperNames returns the names usable in a script's "use" list.
func HelperNames() []string {
	return slices.Sorted(maps.Keys(helperDeps))
}

// IsHelper reports whether name is a known shell helper.
func IsHelper(name string) bool {
	_, ok := helperDeps[name]
	return ok
}

// Dialect maps a shell binary to the helper dialect it understands.
func Dialect(shellPath string) string {
	if strings.TrimSuffix(filepath.Base(shellPath), ".exe") == "fish" {
		return DialectFish
	}
	return DialectSh
}

// RenderHelpers returns the shell function definitions for names (and the
// helpers they depend on) in the given dialect, ready to prefix a command.
func (e *Engine) RenderHelpers(names []string, dialect string, c *Context) (string, error) {
	ordered, err := resolveHelpers(names)
	if err != nil {
		return "", err
	}

	ext := ".sh"
	if dialect == DialectFish {
		ext = ".fish"
	}

	hc := &Context{}
	if c != nil {
		copied := *c
		hc = &copied
	}
	hc.Extra = maps.Clone(hc.Extra)
	if hc.Extra == nil {
		hc.Extra = map[string]any{}
	}
	hc.Extra["width"] = HeaderWidth

	var b strings.Builder
	for _, name := range ordered {
		src, err := e.RenderFile("helpers/"+dialect+"/"+name+ext, hc)
		if err != nil {
			return "", err
		}
		b.WriteString(src)
		if !strings.HasSuffix(src, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// resolveHelpers expands dependencies so every helper follows the ones it
// calls, without duplicates.
func resolveHelpers(names []string) ([]string, error) {
	var ordered []string
	seen := map[string]bool{}

	var visit func(name string) error
	visit = func(name string) error {
		deps, ok := helperDeps[name]
		if !ok {
			return fmt.Errorf("%w: unknown helper %q", ErrInvalidArgument, name)
		}
		if seen[name] {
			return nil
		}
		seen[name] = true
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		ordered = append(ordered, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
