// Package git reads repository state needed for file selection by shelling
// out to the git binary.
package git

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/toolbelt/internal/models"
	"github.com/harrison/toolbelt/internal/shell"
)

// Runner is the shell collaborator used to invoke git.
type Runner interface {
	Run(ctx context.Context, command string, opts shell.RunOptions) (models.ExecResult, error)
}

// Repo is a git working tree rooted at Root.
type Repo struct {
	Root  string
	Shell Runner
}

// New returns a Repo for the working tree at root.
func New(root string, sh Runner) *Repo {
	return &Repo{Root: root, Shell: sh}
}

// FindRoot walks up from start to the nearest directory containing .git
// (a directory, or a file for worktrees and submodules).
func FindRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Staged returns paths (relative to Root) staged for the next commit.
func (r *Repo) Staged() ([]string, error) {
	return r.lines("git diff --name-only --cached --diff-filter=d")
}

// Untracked returns paths (relative to Root) not tracked and not ignored.
func (r *Repo) Untracked() ([]string, error) {
	return r.lines("git ls-files --others --exclude-standard")
}

// IgnorePatterns returns the glob patterns from the repository .gitignore,
// .git/info/exclude and the user's core.excludesFile. Comments, blank lines
// and negated patterns are dropped.
func (r *Repo) IgnorePatterns() ([]string, error) {
	files := []string{
		filepath.Join(r.Root, ".gitignore"),
		filepath.Join(r.Root, ".git", "info", "exclude"),
	}

	excludesFile, err := r.lines("git config --path core.excludesFile")
	if err == nil && len(excludesFile) > 0 {
		files = append(files, expandHome(excludesFile[0]))
	}

	var patterns []string
	for _, f := range files {
		p, err := ReadIgnoreFile(f)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p...)
	}
	return patterns, nil
}

// ReadIgnoreFile parses a gitignore-style file. A missing file yields no
// patterns.
func ReadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ignore file %s: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		line = strings.TrimSuffix(line, "/")
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", path, err)
	}
	return patterns, nil
}

// lines runs a git command in Root and returns its non-empty output lines.
func (r *Repo) lines(command string) ([]string, error) {
	res, err := r.Shell.Run(context.Background(), command, shell.RunOptions{Capture: true, Dir: r.Root})
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", command, err)
	}
	if res.Failed() {
		return nil, fmt.Errorf("%q exited with code %d: %s", command, res.ReturnCode, strings.TrimSpace(res.Stderr))
	}

	var out []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
