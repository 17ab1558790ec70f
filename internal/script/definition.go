package script

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/harrison/toolbelt/internal/files"
	"github.com/harrison/toolbelt/internal/templates"
)

var (
	// ErrInvalidConfig reports a script declaration that cannot be used.
	ErrInvalidConfig = errors.New("invalid script config")

	// ErrEmptyCommand is returned at run time when the command text, or
	// the command file it points to, is empty.
	ErrEmptyCommand = errors.New("script command is empty")

	// ErrNameCollision is returned when a script would replace an
	// existing command.
	ErrNameCollision = errors.New("command name already in use")
)

// Definition is a parsed script declaration.
type Definition struct {
	Name string

	// Command is the inline command template. Exactly one of Command and
	// CommandFile is set.
	Command string

	// CommandFile is a template file read at run time, relative to the
	// project root.
	CommandFile string

	About string

	// RootCLI attaches the script to the root command instead of "run".
	RootCLI bool

	// SuccessExitCodes are the exit codes treated as success, sorted.
	SuccessExitCodes []int

	Options []Option

	// Files selects the files exposed to the template, nil for none.
	Files *files.Selection

	// Use names the shell helpers prefixed to the command.
	Use []string

	// Group is the command group path the script is registered under,
	// derived from its location in scripts_dir.
	Group []string
}

// FromConfig parses the declaration of script name.
func FromConfig(name string, raw map[string]any) (*Definition, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: script name is empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(name, " \t/") {
		return nil, fmt.Errorf("%w: script name %q contains whitespace or /", ErrInvalidConfig, name)
	}

	def := &Definition{Name: name}
	wrap := func(err error) error {
		if errors.Is(err, ErrInvalidConfig) {
			return fmt.Errorf("script %s: %w", name, err)
		}
		return fmt.Errorf("script %s: %w: %w", name, ErrInvalidConfig, err)
	}

	var err error
	if def.Command, err = stringField(raw, "command"); err != nil {
		return nil, wrap(err)
	}
	if def.CommandFile, err = stringField(raw, "command_file"); err != nil {
		return nil, wrap(err)
	}
	_, hasCommand := raw["command"]
	_, hasFile := raw["command_file"]
	switch {
	case !hasCommand && !hasFile:
		return nil, wrap(fmt.Errorf("%w: one of command or command_file is required", ErrInvalidConfig))
	case hasCommand && hasFile:
		return nil, wrap(fmt.Errorf("%w: command and command_file are mutually exclusive", ErrInvalidConfig))
	}

	if def.About, err = stringField(raw, "about"); err != nil {
		return nil, wrap(err)
	}
	if def.RootCLI, err = boolField(raw, "root_cli"); err != nil {
		return nil, wrap(err)
	}
	if def.SuccessExitCodes, err = exitCodes(raw["success_exit_codes"]); err != nil {
		return nil, wrap(err)
	}

	if rawOpts, ok := raw["options"]; ok && rawOpts != nil {
		list, ok := rawOpts.([]any)
		if !ok {
			return nil, wrap(fmt.Errorf("%w: options must be a list, got %T", ErrInvalidConfig, rawOpts))
		}
		seen := map[string]bool{}
		for _, item := range list {
			opt, err := ParseOption(item)
			if err != nil {
				return nil, wrap(err)
			}
			for _, n := range opt.Names {
				if seen[n] {
					return nil, wrap(fmt.Errorf("%w: option %s declared twice", ErrInvalidConfig, n))
				}
				seen[n] = true
			}
			def.Options = append(def.Options, opt)
		}
	}

	if rawFiles, ok := raw["files"]; ok && rawFiles != nil {
		if def.Files, err = files.ParseSelection(rawFiles); err != nil {
			return nil, wrap(err)
		}
	}

	if rawUse, ok := raw["use"]; ok && rawUse != nil {
		if list, isList := rawUse.([]any); !isList || len(list) > 0 {
			if def.Use, err = nameList(rawUse); err != nil {
				return nil, wrap(err)
			}
		}
	}
	for _, helper := range def.Use {
		if !templates.IsHelper(helper) {
			return nil, wrap(fmt.Errorf("%w: unknown helper %q, available: %s",
				ErrInvalidConfig, helper, strings.Join(templates.HelperNames(), ", ")))
		}
	}

	return def, nil
}

// ToConfig serializes the definition into its config form. Feeding the
// result back into FromConfig yields an equal Definition (minus Group).
func (d *Definition) ToConfig() map[string]any {
	m := map[string]any{
		"about":              d.About,
		"root_cli":           d.RootCLI,
		"success_exit_codes": intsToAny(d.SuccessExitCodes),
	}
	if d.CommandFile != "" {
		m["command_file"] = d.CommandFile
	} else {
		m["command"] = d.Command
	}

	opts := make([]any, 0, len(d.Options))
	for _, o := range d.Options {
		opts = append(opts, o.ToConfig())
	}
	m["options"] = opts

	use := make([]any, 0, len(d.Use))
	for _, u := range d.Use {
		use = append(use, u)
	}
	m["use"] = use

	if d.Files != nil {
		m["files"] = d.Files.ToConfig()
	}
	return m
}

// Path is the full command path below the run group, e.g. "lint py".
func (d *Definition) Path() string {
	return strings.Join(append(slices.Clone(d.Group), d.Name), " ")
}

// Succeeded reports whether code is one of the accepted exit codes.
func (d *Definition) Succeeded(code int) bool {
	return slices.Contains(d.SuccessExitCodes, code)
}

// templateData is the "script" value seen by templates: the config form
// without the command text.
func (d *Definition) templateData() map[string]any {
	m := d.ToConfig()
	delete(m, "command")
	m["name"] = d.Name
	m["group"] = strings.Join(d.Group, " ")
	return m
}

func exitCodes(v any) ([]int, error) {
	var items []any
	switch c := v.(type) {
	case nil:
		return []int{0}, nil
	case []any:
		items = c
	case []int:
		for _, n := range c {
			items = append(items, n)
		}
	default:
		items = []any{c}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: success_exit_codes must not be empty", ErrInvalidConfig)
	}

	codes := make([]int, 0, len(items))
	for _, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, fmt.Errorf("%w: success_exit_codes: %v", ErrInvalidConfig, err)
		}
		codes = append(codes, n)
	}
	slices.Sort(codes)
	return slices.Compact(codes), nil
}

// nameList accepts a string or a list of strings.
func nameList(v any) ([]string, error) {
	switch n := v.(type) {
	case string:
		if n == "" {
			break
		}
		return []string{n}, nil
	case []string:
		if len(n) > 0 {
			return slices.Clone(n), nil
		}
	case []any:
		out := make([]string, 0, len(n))
		for _, item := range n {
			s, ok := item.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("%w: names must be non-empty strings, got %v", ErrInvalidConfig, item)
			}
			out = append(out, s)
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: expected a name or a list of names, got %v", ErrInvalidConfig, v)
}

func stringField(m map[string]any, key string) (string, error) {
	switch v := m[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidConfig, key, v)
	}
}

func boolField(m map[string]any, key string) (bool, error) {
	switch v := m[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidConfig, key, v)
	}
}

func intsToAny(in []int) []any {
	out := make([]any, 0, len(in))
	for _, n := range in {
		out = append(out, n)
	}
	return out
}
