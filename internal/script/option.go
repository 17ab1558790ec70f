package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Option value types.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
)

// reservedFlags are added to every script command and cannot be declared.
var reservedFlags = map[string]bool{
	"-v": true, "--verbose": true,
	"--pretend": true,
	"-h":        true, "--help": true,
}

// Option is one declared command-line option of a script.
type Option struct {
	// Names are the flag spellings, e.g. ["-f", "--force"].
	Names []string

	// Default is the value used when the flag is not given, already
	// converted to Type (bool for flags, int for counters).
	Default any

	About string

	// IsFlag marks a boolean switch.
	IsFlag bool

	// Count marks a repeatable counter such as -vvv.
	Count bool

	// Type is one of TypeString, TypeInt or TypeFloat for valued options.
	Type string
}

// ParseOption builds an Option from one entry of a script's "options" list.
// A single string "name" is treated as a one-element list.
func ParseOption(raw any) (Option, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Option{}, fmt.Errorf("%w: option must be a mapping, got %T", ErrInvalidConfig, raw)
	}

	var opt Option
	var err error

	if opt.Names, err = nameList(m["name"]); err != nil {
		return Option{}, err
	}
	for _, name := range opt.Names {
		if err := checkFlagName(name); err != nil {
			return Option{}, err
		}
	}

	if opt.About, err = stringField(m, "about"); err != nil {
		return Option{}, err
	}
	if opt.IsFlag, err = boolField(m, "is_flag"); err != nil {
		return Option{}, err
	}
	if opt.Count, err = boolField(m, "count"); err != nil {
		return Option{}, err
	}
	if opt.IsFlag && opt.Count {
		return Option{}, fmt.Errorf("%w: option %s cannot be both is_flag and count", ErrInvalidConfig, opt.Names[0])
	}

	if opt.Type, err = stringField(m, "type"); err != nil {
		return Option{}, err
	}
	switch {
	case opt.IsFlag || opt.Count:
		if opt.Type != "" {
			return Option{}, fmt.Errorf("%w: option %s: type is not allowed on flags and counters", ErrInvalidConfig, opt.Names[0])
		}
	case opt.Type == "":
		opt.Type = TypeString
	case opt.Type != TypeString && opt.Type != TypeInt && opt.Type != TypeFloat:
		return Option{}, fmt.Errorf("%w: option %s has unknown type %q", ErrInvalidConfig, opt.Names[0], opt.Type)
	}

	if opt.Default, err = opt.convertDefault(m["default"]); err != nil {
		return Option{}, err
	}
	return opt, nil
}

// Key is the name the option's value is exposed under in templates: the
// first long name without dashes, "-" replaced by "_".
func (o Option) Key() string {
	name := o.Names[0]
	for _, n := range o.Names {
		if strings.HasPrefix(n, "--") {
			name = n
			break
		}
	}
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
}

// long returns the long spellings without dashes.
func (o Option) long() []string {
	var out []string
	for _, n := range o.Names {
		if strings.HasPrefix(n, "--") {
			out = append(out, n[2:])
		}
	}
	return out
}

// short returns the first single-letter spelling, or "".
func (o Option) short() string {
	for _, n := range o.Names {
		if !strings.HasPrefix(n, "--") {
			return n[1:]
		}
	}
	return ""
}

// ToConfig serializes the option into its config form.
func (o Option) ToConfig() map[string]any {
	names := make([]any, 0, len(o.Names))
	for _, n := range o.Names {
		names = append(names, n)
	}
	m := map[string]any{
		"name":    names,
		"default": o.Default,
		"about":   o.About,
		"is_flag": o.IsFlag,
		"count":   o.Count,
	}
	if o.Type != "" {
		m["type"] = o.Type
	}
	return m
}

func (o Option) convertDefault(v any) (any, error) {
	switch {
	case o.IsFlag:
		if v == nil {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: option %s: flag default must be a bool, got %T", ErrInvalidConfig, o.Names[0], v)
		}
		return b, nil
	case o.Count:
		if v == nil {
			return 0, nil
		}
		n, err := toInt(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: option %s: counter default must be a non-negative integer, got %v", ErrInvalidConfig, o.Names[0], v)
		}
		return n, nil
	}

	switch o.Type {
	case TypeInt:
		if v == nil {
			return 0, nil
		}
		n, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("%w: option %s: %v", ErrInvalidConfig, o.Names[0], err)
		}
		return n, nil
	case TypeFloat:
		if v == nil {
			return 0.0, nil
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: option %s: %v", ErrInvalidConfig, o.Names[0], err)
		}
		return f, nil
	default:
		if v == nil {
			return "", nil
		}
		return fmt.Sprint(v), nil
	}
}

func checkFlagName(name string) error {
	switch {
	case reservedFlags[name]:
		return fmt.Errorf("%w: option %s is reserved", ErrInvalidConfig, name)
	case strings.HasPrefix(name, "--"):
		if len(name) < 4 || strings.ContainsAny(name, " =") {
			return fmt.Errorf("%w: invalid long option %q", ErrInvalidConfig, name)
		}
	case strings.HasPrefix(name, "-"):
		if utf8.RuneCountInString(name) != 2 {
			return fmt.Errorf("%w: short option %q must be a single letter", ErrInvalidConfig, name)
		}
	default:
		return fmt.Errorf("%w: option name %q must start with - or --", ErrInvalidConfig, name)
	}
	return nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
