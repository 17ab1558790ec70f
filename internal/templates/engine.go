// Package templates renders script command text.
//
// Templates use Go text/template syntax with {{ }} delimiters and the
// sprig function library, plus a handful of shell-oriented filters:
//
//	{{ header "Lint" }}                  fixed-width banner
//	{{ count_flag .opts.verbose "v" }}   -vvv style repeated flag
//	{{ cprint "<32>ok {}" .name }}       echo with colour markers
//	{{ .files | wrap_paths }}            "a" "b c" quoted arguments
//
// An undefined value, such as a config key the project does not set,
// renders as empty text.
//
// The engine itself is process-wide and built on first use; per-render
// state such as colour support travels in the Context.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"sort"
	"sync"
	"text/template"
	"text/template/parse"

	"github.com/Masterminds/sprig/v3"
	"github.com/harrison/toolbelt/internal/models"
)

//go:embed builtin
var builtinFS embed.FS

// ErrTemplateNotFound is returned by RenderFile for unknown template names.
var ErrTemplateNotFound = errors.New("template not found")

// Context holds the values a template can reference.
type Context struct {
	// Options are the parsed CLI options, keyed by option name. Also
	// exposed as "opts".
	Options map[string]any

	// Script is the serialized script definition.
	Script map[string]any

	// Conf is the whole project configuration.
	Conf map[string]any

	// Runtime carries verbosity, pretend and colour flags ("ctx").
	Runtime models.RuntimeContext

	// Files are the selected files, nil when the script selects none.
	Files []string

	// ProjPath resolves paths against the project root ("proj_path").
	ProjPath func(parts ...string) string

	// Extra values merged into the top level of the template data.
	Extra map[string]any
}

// Data returns the map templates are executed against.
func (c *Context) Data() map[string]any {
	if c == nil {
		c = &Context{}
	}
	data := map[string]any{
		"options": c.Options,
		"opts":    c.Options,
		"script":  c.Script,
		"conf":    c.Conf,
		"ctx":     c.Runtime.ToMap(),
		"files":   c.Files,
	}
	maps.Copy(data, c.Extra)
	return data
}

// Engine renders templates with a fixed function library.
type Engine struct {
	funcs template.FuncMap
	files fs.FS
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine, creating it on first use.
func Default() *Engine {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(builtinFS, "builtin")
		if err != nil {
			panic(fmt.Sprintf("templates: builtin templates missing: %v", err))
		}
		defaultEngine = New(sub)
	})
	return defaultEngine
}

// New returns an engine serving RenderFile from files.
func New(files fs.FS) *Engine {
	funcs := sprig.TxtFuncMap()
	funcs["header"] = Header
	funcs["count_flag"] = CountFlag
	funcs["wrap_paths"] = WrapPaths
	funcs["cprint"] = func(value any, args ...any) string {
		return Cprint(false, value, args...)
	}
	funcs["proj_path"] = func(parts ...string) string {
		return joinPath(parts...)
	}
	funcs[blankFunc] = blank
	return &Engine{funcs: funcs, files: files}
}

// Render executes template text against c.
func (e *Engine) Render(text string, c *Context) (string, error) {
	return e.render("inline", text, c)
}

// RenderFile executes the named built-in template against c.
func (e *Engine) RenderFile(name string, c *Context) (string, error) {
	content, err := fs.ReadFile(e.files, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return e.render(name, string(content), c)
}

// Names lists the built-in templates.
func (e *Engine) Names() []string {
	var names []string
	_ = fs.WalkDir(e.files, ".", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	sort.Strings(names)
	return names
}

func (e *Engine) render(name, text string, c *Context) (string, error) {
	tpl, err := template.New(name).
		Delims("{{", "}}").
		Funcs(e.funcsFor(c)).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	for _, t := range tpl.Templates() {
		if t.Tree != nil {
			blankMissing(t.Tree, t.Tree.Root)
		}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, c.Data()); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// blankFunc is the function appended to every printing action so that an
// undefined value renders as "" instead of "<no value>".
const blankFunc = "_toolbelt_blank"

func blank(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// blankMissing appends blankFunc to the pipeline of each action under n
// that prints its value. Actions declaring variables print nothing and are
// left alone.
func blankMissing(tree *parse.Tree, n parse.Node) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			blankMissing(tree, child)
		}
	case *parse.ActionNode:
		if len(n.Pipe.Decl) > 0 {
			return
		}
		ident := parse.NewIdentifier(blankFunc).SetTree(tree).SetPos(n.Pos)
		n.Pipe.Cmds = append(n.Pipe.Cmds, &parse.CommandNode{
			NodeType: parse.NodeCommand,
			Pos:      n.Pos,
			Args:     []parse.Node{ident},
		})
	case *parse.IfNode:
		blankMissing(tree, n.List)
		blankMissing(tree, n.ElseList)
	case *parse.RangeNode:
		blankMissing(tree, n.List)
		blankMissing(tree, n.ElseList)
	case *parse.WithNode:
		blankMissing(tree, n.List)
		blankMissing(tree, n.ElseList)
	}
}

// funcsFor binds the context-dependent functions for one render.
func (e *Engine) funcsFor(c *Context) template.FuncMap {
	funcs := maps.Clone(e.funcs)
	if c == nil {
		return funcs
	}

	color := c.Runtime.Color
	funcs["cprint"] = func(value any, args ...any) string {
		return Cprint(color, value, args...)
	}
	if c.ProjPath != nil {
		funcs["proj_path"] = c.ProjPath
	}
	return funcs
}
