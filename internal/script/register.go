package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command annotations identifying generated commands.
const (
	scriptAnnotation = "toolbelt/script"
	groupAnnotation  = "toolbelt/group"
)

// Values holds the parsed option values of one invocation, keyed by
// Option.Key, plus "verbose" (int) and "pretend" (bool).
type Values map[string]any

// Executor runs a script once its command line has been parsed.
type Executor interface {
	Run(ctx context.Context, def *Definition, values Values) error
}

// Register attaches def to parent as a subcommand, creating the command
// groups named by def.Group on the way. A name already taken by a runnable
// command is an ErrNameCollision; a plain group of the same name becomes
// runnable as the script.
func Register(def *Definition, parent *cobra.Command, exec Executor) error {
	target := parent
	for _, seg := range def.Group {
		child := findChild(target, seg)
		switch {
		case child == nil:
			child = newGroup(seg)
			target.AddCommand(child)
		case !canHost(child):
			return fmt.Errorf("%w: %q is a built-in command and cannot contain script %s",
				ErrNameCollision, child.CommandPath(), def.Path())
		}
		target = child
	}

	if existing := findChild(target, def.Name); existing != nil {
		if existing.Runnable() {
			return fmt.Errorf("%w: %s %s", ErrNameCollision, target.CommandPath(), def.Name)
		}
		return bind(existing, def, exec)
	}

	cmd := &cobra.Command{Use: def.Name}
	if err := bind(cmd, def, exec); err != nil {
		return err
	}
	target.AddCommand(cmd)
	return nil
}

// RegisterAll registers defs below runGroup, or below root for scripts with
// RootCLI set. It stops at the first failure.
func RegisterAll(defs []*Definition, root, runGroup *cobra.Command, exec Executor) error {
	for _, def := range defs {
		parent := runGroup
		if def.RootCLI {
			parent = root
		}
		if err := Register(def, parent, exec); err != nil {
			return err
		}
	}
	return nil
}

func findChild(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return c
		}
	}
	return nil
}

// canHost reports whether nested scripts may be added below c.
func canHost(c *cobra.Command) bool {
	if _, ok := c.Annotations[groupAnnotation]; ok {
		return true
	}
	if _, ok := c.Annotations[scriptAnnotation]; ok {
		return true
	}
	return c.HasSubCommands() && !c.Runnable()
}

func newGroup(name string) *cobra.Command {
	return &cobra.Command{
		Use:         name,
		Short:       fmt.Sprintf("Scripts in %s", name),
		Annotations: map[string]string{groupAnnotation: name},
	}
}

// bind turns cmd into the command line of def.
func bind(cmd *cobra.Command, def *Definition, exec Executor) error {
	short, _, _ := strings.Cut(def.About, "\n")
	cmd.Short = short
	cmd.Long = def.About
	cmd.Args = cobra.NoArgs
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[scriptAnnotation] = def.Path()

	fs := cmd.Flags()
	readers := make(map[string]func() any, len(def.Options))
	for _, opt := range def.Options {
		read, err := addOption(fs, opt)
		if err != nil {
			return fmt.Errorf("script %s: %w", def.Path(), err)
		}
		readers[opt.Key()] = read
	}

	verbose := fs.CountP("verbose", "v", "Increase verbosity (repeatable)")
	pretend := fs.Bool("pretend", false, "Print the rendered command instead of running it")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		values := make(Values, len(readers)+2)
		for key, read := range readers {
			values[key] = read()
		}
		values["verbose"] = *verbose
		values["pretend"] = *pretend
		return exec.Run(cmd.Context(), def, values)
	}
	return nil
}

// addOption declares opt on fs and returns a reader for its parsed value.
// Extra long spellings are registered as hidden aliases sharing the value.
func addOption(fs *pflag.FlagSet, opt Option) (read func() any, err error) {
	longs := opt.long()
	short := opt.short()
	primary := opt.Key()
	if len(longs) > 0 {
		primary = longs[0]
		longs = longs[1:]
	}

	for _, name := range append([]string{primary}, longs...) {
		if fs.Lookup(name) != nil {
			return nil, fmt.Errorf("%w: flag --%s declared twice", ErrNameCollision, name)
		}
	}
	if short != "" && fs.ShorthandLookup(short) != nil {
		return nil, fmt.Errorf("%w: flag -%s declared twice", ErrNameCollision, short)
	}

	switch {
	case opt.IsFlag:
		p := new(bool)
		def, _ := opt.Default.(bool)
		fs.BoolVarP(p, primary, short, def, opt.About)
		for _, alias := range longs {
			fs.BoolVar(p, alias, def, opt.About)
		}
		read = func() any { return *p }
	case opt.Count:
		p := new(int)
		fs.CountVarP(p, primary, short, opt.About)
		for _, alias := range longs {
			fs.CountVar(p, alias, opt.About)
		}
		*p, _ = opt.Default.(int)
		read = func() any { return *p }
	case opt.Type == TypeInt:
		p := new(int)
		def, _ := opt.Default.(int)
		fs.IntVarP(p, primary, short, def, opt.About)
		for _, alias := range longs {
			fs.IntVar(p, alias, def, opt.About)
		}
		read = func() any { return *p }
	case opt.Type == TypeFloat:
		p := new(float64)
		def, _ := opt.Default.(float64)
		fs.Float64VarP(p, primary, short, def, opt.About)
		for _, alias := range longs {
			fs.Float64Var(p, alias, def, opt.About)
		}
		read = func() any { return *p }
	default:
		p := new(string)
		def, _ := opt.Default.(string)
		fs.StringVarP(p, primary, short, def, opt.About)
		for _, alias := range longs {
			fs.StringVar(p, alias, def, opt.About)
		}
		read = func() any { return *p }
	}

	for _, alias := range longs {
		_ = fs.MarkHidden(alias)
	}
	return read, nil
}
