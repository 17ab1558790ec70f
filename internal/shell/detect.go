package shell

import (
	"os"
	"os/exec"
)

// FallbackShell is used when $SHELL is unset or not executable.
const FallbackShell = "/bin/sh"

// DefaultShell returns the user's interactive shell from $SHELL, falling
// back to FallbackShell.
func DefaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		if path, err := exec.LookPath(sh); err == nil {
			return path
		}
	}
	return FallbackShell
}
