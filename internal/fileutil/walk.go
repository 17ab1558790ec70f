package fileutil

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when a walk root is missing or not a directory.
var ErrNotDirectory = errors.New("walk root is not a directory")

// Walk returns a lazy sequence of every path under root that survives the
// include/exclude filters.
//
// A child matching any exclude pattern (PathContainsAny) is skipped and, if
// it is a directory, never entered. Otherwise it is yielded when include is
// empty or it matches an include pattern (MatchesAny). Directories that were
// not excluded are always descended into.
//
// Each iteration lists the file system afresh. Directories that cannot be
// read are skipped.
func Walk(root string, include, exclude []string) (iter.Seq[string], error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	m := Matcher{Root: filepath.Clean(root)}
	return func(yield func(string) bool) {
		m.walk(filepath.Clean(root), include, exclude, yield)
	}, nil
}

// Collect runs Walk and gathers the whole sequence into a slice.
func Collect(root string, include, exclude []string) ([]string, error) {
	seq, err := Walk(root, include, exclude)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0)
	for p := range seq {
		paths = append(paths, p)
	}
	return paths, nil
}

// walk visits dir and reports false once the consumer stops iterating.
func (m Matcher) walk(dir string, include, exclude []string, yield func(string) bool) bool {
	// os.ReadDir returns entries sorted by name
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if m.ContainsAny(path, exclude) {
			continue
		}

		if len(include) == 0 || m.MatchesAny(path, include) {
			if !yield(path) {
				return false
			}
		}

		// Symlinked directories are yielded but not followed.
		if entry.IsDir() {
			if !m.walk(path, include, exclude, yield) {
				return false
			}
		}
	}
	return true
}
