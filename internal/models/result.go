package models

import "fmt"

// ExecResult represents the outcome of running a single shell command.
type ExecResult struct {
	Command    string // Command text as handed to the shell
	ReturnCode int    // Exit code (shell.InterruptedCode when interrupted)
	Stdout     string // Captured stdout (empty unless captured)
	Stderr     string // Captured stderr (empty unless captured)
}

// Succeeded reports whether the command exited with code 0.
func (r ExecResult) Succeeded() bool {
	return r.ReturnCode == 0
}

// Failed reports whether the command exited with a non-zero code.
func (r ExecResult) Failed() bool {
	return r.ReturnCode != 0
}

// ExitError asks the entrypoint to terminate the process with Code.
// It is returned when a wrapped command exits outside its accepted codes.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}
