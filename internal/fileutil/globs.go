package fileutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Matcher evaluates glob patterns against paths. Root, when set, is the
// directory that anchored ("/pattern") patterns are evaluated from.
type Matcher struct {
	Root string
}

// MatchesAny reports whether path fully matches at least one pattern.
func MatchesAny(path string, patterns []string) bool {
	return Matcher{}.MatchesAny(path, patterns)
}

// PathContainsAny reports whether any pattern matches somewhere in path.
func PathContainsAny(path string, patterns []string) bool {
	return Matcher{}.ContainsAny(path, patterns)
}

// MatchesAny reports whether path fully matches at least one pattern.
func (m Matcher) MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
			if compile(anchored, true, true).MatchString(m.anchoredSubject(path)) {
				return true
			}
			continue
		}
		if compile(pattern, true, true).MatchString(path) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any pattern matches somewhere in path.
// Anchored patterns must still match at the start of the path.
func (m Matcher) ContainsAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
			if compile(anchored, true, false).MatchString(m.anchoredSubject(path)) {
				return true
			}
			continue
		}
		if compile(pattern, false, false).MatchString(path) {
			return true
		}
	}
	return false
}

// anchoredSubject returns the string anchored patterns are tested against:
// the path relative to Root when possible, with one leading separator
// stripped.
func (m Matcher) anchoredSubject(path string) string {
	if m.Root != "" {
		if rel, err := filepath.Rel(m.Root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			path = rel
		}
	}
	if strings.HasPrefix(path, string(filepath.Separator)) {
		return path[1:]
	}
	return path
}

type cacheKey struct {
	pattern string
	start   bool
	end     bool
}

var (
	cacheMu sync.Mutex
	cache   = map[cacheKey]*regexp.Regexp{}
)

// compile translates a glob into a regexp, anchored at the start and/or
// end as requested. Compiled expressions are cached.
func compile(pattern string, start, end bool) *regexp.Regexp {
	key := cacheKey{pattern: pattern, start: start, end: end}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if re, ok := cache[key]; ok {
		return re
	}

	expr := "(?s:" + translate(pattern) + ")"
	if start {
		expr = "^" + expr
	}
	if end {
		expr += "$"
	}
	re := regexp.MustCompile(expr)
	cache[key] = re
	return re
}

// translate converts shell glob syntax into an unanchored regexp body.
// An unterminated "[" is taken literally.
func translate(pattern string) string {
	runes := []rune(pattern)
	n := len(runes)
	var b strings.Builder

	for i := 0; i < n; {
		c := runes[i]
		i++
		switch c {
		case '*':
			for i < n && runes[i] == '*' {
				i++
			}
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i
			if j < n && runes[j] == '!' {
				j++
			}
			if j < n && runes[j] == ']' {
				j++
			}
			for j < n && runes[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(translateClass(runes[i:j]))
			i = j + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

func translateClass(body []rune) string {
	var b strings.Builder
	b.WriteByte('[')
	for k, r := range body {
		switch {
		case k == 0 && r == '!':
			b.WriteByte('^')
		case k == 0 && r == '^':
			b.WriteString(`\^`)
		case r == '\\' || r == '[' || r == ']':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(']')
	return b.String()
}
