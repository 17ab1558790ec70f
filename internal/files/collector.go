package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/harrison/toolbelt/internal/fileutil"
)

// ErrNoGit is returned when a selection needs repository state but the
// Collector has no GitState.
var ErrNoGit = errors.New("selection requires git but no repository is available")

// GitState is the repository information a selection may depend on.
type GitState interface {
	Staged() ([]string, error)
	Untracked() ([]string, error)
	IgnorePatterns() ([]string, error)
}

// Collector resolves selections within one project.
type Collector struct {
	// Root is the absolute project root.
	Root string

	// Git provides repository state; nil when not in a repository.
	Git GitState

	// RepoRoot is the repository top level that anchored ignore-file
	// patterns refer to. Empty means Root.
	RepoRoot string
}

// NewCollector returns a Collector for the project at root.
func NewCollector(root string, git GitState) *Collector {
	return &Collector{Root: root, Git: git}
}

// Whitelist returns the effective include patterns. With OnlyStaged each
// staged file (filtered by Include when given) becomes the pattern "*"+path.
func (c *Collector) Whitelist(sel *Selection) ([]string, error) {
	if !sel.OnlyStaged {
		return append([]string{}, sel.Include...), nil
	}
	if c.Git == nil {
		return nil, ErrNoGit
	}

	staged, err := c.Git.Staged()
	if err != nil {
		return nil, fmt.Errorf("list staged files: %w", err)
	}

	whitelist := make([]string, 0, len(staged))
	for _, path := range staged {
		if len(sel.Include) > 0 && !fileutil.MatchesAny(path, sel.Include) {
			continue
		}
		whitelist = append(whitelist, "*"+path)
	}
	return whitelist, nil
}

// Blacklist returns the effective exclude patterns: Exclude, plus the
// repository ignore patterns when UseIgnoreFile is set, plus the untracked
// files unless IncludeUntracked is set.
func (c *Collector) Blacklist(sel *Selection) ([]string, error) {
	ignore, untracked, err := c.repoExcludes(sel)
	if err != nil {
		return nil, err
	}
	blacklist := append([]string{}, sel.Exclude...)
	blacklist = append(blacklist, ignore...)
	return append(blacklist, untracked...), nil
}

// repoExcludes returns the ignore-file patterns, whose anchored entries are
// relative to the repository root, and the untracked files the selection
// excludes.
func (c *Collector) repoExcludes(sel *Selection) (ignore, untracked []string, err error) {
	if !sel.UseIgnoreFile && sel.IncludeUntracked {
		return nil, nil, nil
	}
	if c.Git == nil {
		return nil, nil, ErrNoGit
	}

	if sel.UseIgnoreFile {
		if ignore, err = c.Git.IgnorePatterns(); err != nil {
			return nil, nil, fmt.Errorf("read ignore patterns: %w", err)
		}
	}
	if !sel.IncludeUntracked {
		if untracked, err = c.Git.Untracked(); err != nil {
			return nil, nil, fmt.Errorf("list untracked files: %w", err)
		}
	}
	return ignore, untracked, nil
}

// Resolve returns the absolute paths selected by sel, in path order.
// Overlapping paths produce duplicates.
//
// When OnlyStaged and Include are both set and no staged file matches
// Include, the result is empty rather than an unrestricted walk.
func (c *Collector) Resolve(sel *Selection) ([]string, error) {
	whitelist, err := c.Whitelist(sel)
	if err != nil {
		return nil, err
	}
	if sel.OnlyStaged && len(sel.Include) > 0 && len(whitelist) == 0 {
		return []string{}, nil
	}

	ignore, untracked, err := c.repoExcludes(sel)
	if err != nil {
		return nil, err
	}
	exclude := append(append([]string{}, sel.Exclude...), untracked...)

	results := make([]string, 0)
	for _, p := range sel.Paths {
		roots, err := c.expand(p)
		if err != nil {
			return nil, err
		}
		for _, root := range roots {
			blacklist := append(slices.Clone(exclude), rebaseAnchored(ignore, c.repoRoot(), root)...)
			found, err := c.collect(root, whitelist, blacklist)
			if err != nil {
				return nil, err
			}
			results = append(results, found...)
		}
	}
	return results, nil
}

func (c *Collector) repoRoot() string {
	if c.RepoRoot == "" {
		return c.Root
	}
	return c.RepoRoot
}

// expand resolves p against the project root and expands globs in it.
// A literal path is returned as-is even when it does not exist.
func (c *Collector) expand(p string) ([]string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(c.Root, p)
	}
	abs = filepath.Clean(abs)

	pattern := filepath.ToSlash(abs)
	if !doublestar.ValidatePattern(pattern) || !hasMeta(pattern) {
		return []string{abs}, nil
	}

	matches, err := doublestar.FilepathGlob(abs)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", p, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// collect walks a directory root, or filters a single file root.
func (c *Collector) collect(root string, include, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err == nil && !info.IsDir() {
		if fileutil.PathContainsAny(root, exclude) {
			return nil, nil
		}
		if len(include) > 0 && !fileutil.MatchesAny(root, include) {
			return nil, nil
		}
		return []string{root}, nil
	}
	return fileutil.Collect(root, include, exclude)
}

// rebaseAnchored rewrites anchored ("/x") patterns written relative to
// repoRoot so they apply to a walk rooted at walkRoot. Anchored patterns
// that cannot match below walkRoot are dropped; the others pass through.
func rebaseAnchored(patterns []string, repoRoot, walkRoot string) []string {
	rel, err := filepath.Rel(repoRoot, walkRoot)
	if err != nil || rel == "." {
		return patterns
	}
	rel = filepath.ToSlash(rel)
	outside := rel == ".." || strings.HasPrefix(rel, "../")
	prefix := strings.Split(rel, "/")

	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		anchored, ok := strings.CutPrefix(p, "/")
		if !ok {
			out = append(out, p)
			continue
		}
		if outside {
			continue
		}
		segs := strings.Split(anchored, "/")
		if len(segs) <= len(prefix) || !segmentsMatch(segs[:len(prefix)], prefix) {
			continue
		}
		out = append(out, "/"+strings.Join(segs[len(prefix):], "/"))
	}
	return out
}

// segmentsMatch reports whether each glob segment matches the name at the
// same position.
func segmentsMatch(globs, names []string) bool {
	for i, g := range globs {
		if ok, err := doublestar.Match(g, names[i]); err != nil || !ok {
			return false
		}
	}
	return true
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
