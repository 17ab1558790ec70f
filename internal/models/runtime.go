package models

// RuntimeContext carries the process-wide flags that used to live in a
// global mapping. It is built once per invocation and passed by value to
// every component that reads it.
type RuntimeContext struct {
	// Verbose is the number of -v flags given.
	Verbose int

	// Pretend renders commands without executing them.
	Pretend bool

	// Color enables ANSI colour codes in rendered output.
	Color bool
}

// ToMap exposes the context to templates under the "ctx" key.
func (rc RuntimeContext) ToMap() map[string]any {
	return map[string]any{
		"verbose": rc.Verbose,
		"pretend": rc.Pretend,
		"color":   rc.Color,
	}
}
