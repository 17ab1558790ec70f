// Package docs renders a reference of the project's scripts.
package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/harrison/toolbelt/internal/script"
	"github.com/harrison/toolbelt/internal/templates"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const templateName = "docs/scripts.md"

// Markdown renders the reference for defs. binary is the CLI name used in
// the invocation lines.
func Markdown(binary, title string, defs []*script.Definition) (string, error) {
	entries := make([]any, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, entry(binary, def))
	}

	c := &templates.Context{Extra: map[string]any{
		"title":   title,
		"scripts": entries,
	}}
	return templates.Default().RenderFile(templateName, c)
}

// HTML converts Markdown output into an HTML fragment.
func HTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func entry(binary string, def *script.Definition) map[string]any {
	invocation := binary + " run " + def.Path()
	if def.RootCLI {
		invocation = binary + " " + def.Path()
	}

	options := make([]any, 0, len(def.Options))
	for _, o := range def.Options {
		options = append(options, map[string]any{
			"flags":   strings.Join(o.Names, ", "),
			"type":    optionType(o),
			"default": fmt.Sprint(o.Default),
			"about":   o.About,
		})
	}

	command := def.Command
	if def.CommandFile != "" {
		command = "# read from " + def.CommandFile
	}

	var selected string
	if def.Files != nil {
		selected = strings.Join(def.Files.Paths, ", ")
	}

	codes := make([]string, 0, len(def.SuccessExitCodes))
	for _, c := range def.SuccessExitCodes {
		codes = append(codes, fmt.Sprint(c))
	}

	return map[string]any{
		"invocation": invocation,
		"about":      def.About,
		"options":    options,
		"files":      selected,
		"codes":      strings.Join(codes, ", "),
		"command":    strings.TrimRight(command, "\n"),
	}
}

func optionType(o script.Option) string {
	switch {
	case o.IsFlag:
		return "flag"
	case o.Count:
		return "count"
	default:
		return o.Type
	}
}
