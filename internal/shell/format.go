package shell

import (
	"os"
	"regexp"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// markerRe matches colour markers such as <32> (green) or <0> (reset).
var markerRe = regexp.MustCompile(`<(\d{1,2})>`)

// Fmt expands colour markers in msg into ANSI escape sequences when color is
// true and strips them otherwise.
func Fmt(msg string, color bool) string {
	if !color {
		return StripMarkers(msg)
	}
	return markerRe.ReplaceAllStringFunc(msg, func(m string) string {
		return escapeFor(markerRe.FindStringSubmatch(m)[1])
	})
}

// StripMarkers removes every colour marker from msg.
func StripMarkers(msg string) string {
	return markerRe.ReplaceAllString(msg, "")
}

func escapeFor(code string) string {
	return "\x1b[" + code + "m"
}

// Interactive reports whether f is attached to a terminal that accepts
// colour output.
func Interactive(f *os.File) bool {
	if f == nil || color.NoColor {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
