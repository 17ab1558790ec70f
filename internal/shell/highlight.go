package shell

import (
	"strings"
	"unicode"

	"github.com/fatih/color"
)

var (
	commentColor  = color.New(color.FgHiBlack)
	stringColor   = color.New(color.FgGreen)
	variableColor = color.New(color.FgCyan)
	commandColor  = color.New(color.FgYellow, color.Bold)
	operatorColor = color.New(color.FgMagenta)
)

var shellKeywords = map[string]bool{
	"if": true, "then": true, "else": true, "elif": true, "fi": true,
	"for": true, "while": true, "until": true, "do": true, "done": true,
	"case": true, "esac": true, "in": true, "function": true, "local": true,
	"return": true, "export": true,
}

// Highlight colours shell command text for terminal display. The output is
// unchanged text when colour is disabled.
func Highlight(command string) string {
	var b strings.Builder
	runes := []rune(command)
	n := len(runes)
	commandPos := true

	for i := 0; i < n; {
		c := runes[i]
		switch {
		case c == '#' && (i == 0 || unicode.IsSpace(runes[i-1])):
			j := i
			for j < n && runes[j] != '\n' {
				j++
			}
			b.WriteString(commentColor.Sprint(string(runes[i:j])))
			i = j
		case c == '"' || c == '\'':
			j := i + 1
			for j < n && runes[j] != c {
				if runes[j] == '\\' && c == '"' {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			if j > n {
				j = n
			}
			b.WriteString(stringColor.Sprint(string(runes[i:j])))
			commandPos = false
			i = j
		case c == '$':
			j := i + 1
			if j < n && runes[j] == '{' {
				for j < n && runes[j] != '}' {
					j++
				}
				if j < n {
					j++
				}
			} else {
				for j < n && (runes[j] == '_' || unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '?' || runes[j] == '@') {
					j++
				}
			}
			b.WriteString(variableColor.Sprint(string(runes[i:j])))
			commandPos = false
			i = j
		case c == '|' || c == '&' || c == ';' || c == '\n':
			j := i
			for j < n && (runes[j] == '|' || runes[j] == '&' || runes[j] == ';') {
				j++
			}
			if j == i {
				j++
			}
			token := string(runes[i:j])
			if token == "\n" {
				b.WriteString(token)
			} else {
				b.WriteString(operatorColor.Sprint(token))
			}
			commandPos = true
			i = j
		case unicode.IsSpace(c):
			b.WriteRune(c)
			i++
		default:
			j := i
			for j < n && !unicode.IsSpace(runes[j]) && !strings.ContainsRune("|&;\"'$\n", runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if commandPos || shellKeywords[word] {
				b.WriteString(commandColor.Sprint(word))
			} else {
				b.WriteString(word)
			}
			commandPos = shellKeywords[word]
			i = j
		}
	}
	return b.String()
}
