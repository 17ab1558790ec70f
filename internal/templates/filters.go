package templates

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harrison/toolbelt/internal/shell"
)

// HeaderWidth is the total width of a Header banner.
const HeaderWidth = 80

// ErrInvalidArgument is returned by filters given values they cannot use.
var ErrInvalidArgument = errors.New("invalid argument")

// Header returns an 80 column banner "= title ====...". Long titles are
// truncated so the width never changes.
func Header(title string) string {
	const prefix = "= "
	maxTitle := HeaderWidth - len(prefix) - 1

	runes := []rune(title)
	if len(runes) > maxTitle {
		runes = runes[:maxTitle]
	}

	head := prefix + string(runes) + " "
	pad := HeaderWidth - utf8.RuneCountInString(head)
	if pad < 0 {
		pad = 0
	}
	return head + strings.Repeat("=", pad)
}

// CountFlag turns a counter into a repeated short flag: 0 -> "", 3 -> "-vvv".
func CountFlag(n any, letter string) (string, error) {
	count, err := toCount(n)
	if err != nil {
		return "", err
	}

	r, size := utf8.DecodeRuneInString(letter)
	if size == 0 || size != len(letter) || r == utf8.RuneError || !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return "", fmt.Errorf("%w: count_flag letter must be a single printable character, got %q", ErrInvalidArgument, letter)
	}

	if count == 0 {
		return "", nil
	}
	return "-" + strings.Repeat(letter, count), nil
}

func toCount(n any) (int, error) {
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Int() < 0 {
			return 0, fmt.Errorf("%w: count_flag needs a non-negative count, got %d", ErrInvalidArgument, v.Int())
		}
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != float64(int64(f)) || f < 0 {
			return 0, fmt.Errorf("%w: count_flag needs a non-negative integer, got %v", ErrInvalidArgument, f)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("%w: count_flag needs an integer, got %T", ErrInvalidArgument, n)
	}
}

// Cprint renders value as a shell echo command. Positional "{}" / "{N}"
// placeholders are filled from args, and colour markers like <32> become
// ANSI codes when color is set or are stripped otherwise.
func Cprint(color bool, value any, args ...any) string {
	msg := fmt.Sprint(value)
	if len(args) > 0 {
		msg = formatBraces(msg, args)
	}
	msg = shell.Fmt(msg+"<0>", color)
	return `echo "` + strings.ReplaceAll(msg, `"`, `\"`) + `"`
}

// formatBraces substitutes "{}" (next argument) and "{N}" (argument N).
// "{{" and "}}" produce literal braces; unknown placeholders are kept.
func formatBraces(msg string, args []any) string {
	var b strings.Builder
	next := 0

	for i := 0; i < len(msg); i++ {
		c := msg[i]
		switch {
		case c == '{' && i+1 < len(msg) && msg[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(msg) && msg[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(msg[i:], '}')
			if end < 0 {
				b.WriteString(msg[i:])
				return b.String()
			}
			field := msg[i+1 : i+end]
			idx := -1
			if field == "" {
				idx = next
				next++
			} else if n, err := strconv.Atoi(field); err == nil {
				idx = n
			}
			if idx >= 0 && idx < len(args) {
				fmt.Fprint(&b, args[idx])
			} else {
				b.WriteString(msg[i : i+end+1])
			}
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// WrapPaths quotes each path and joins them with spaces. A bare string is
// rejected since it would otherwise be split into characters.
func WrapPaths(paths any) (string, error) {
	if paths == nil {
		return "", nil
	}
	if _, ok := paths.(string); ok {
		return "", fmt.Errorf("%w: wrap_paths needs a list of paths, got a single string", ErrInvalidArgument)
	}

	v := reflect.ValueOf(paths)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return "", fmt.Errorf("%w: wrap_paths needs a list of paths, got %T", ErrInvalidArgument, paths)
	}

	quoted := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		quoted = append(quoted, `"`+fmt.Sprint(v.Index(i).Interface())+`"`)
	}
	return strings.Join(quoted, " "), nil
}

func joinPath(parts ...string) string {
	return filepath.Join(parts...)
}
