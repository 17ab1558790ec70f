package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates:
//
//	a.py
//	b.txt
//	build/out.o
//	node_modules/m.js
//	pkg/c.py
//	pkg/sub/d.py
//	src/build/keep.o
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"a.py",
		"b.txt",
		"build/out.o",
		"node_modules/m.js",
		"pkg/c.py",
		"pkg/sub/d.py",
		"src/build/keep.o",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestWalkIdentity(t *testing.T) {
	root := makeTree(t)

	paths, err := Collect(root, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a.py",
		"b.txt",
		"build",
		"build/out.o",
		"node_modules",
		"node_modules/m.js",
		"pkg",
		"pkg/c.py",
		"pkg/sub",
		"pkg/sub/d.py",
		"src",
		"src/build",
		"src/build/keep.o",
	}, relAll(t, root, paths))
}

func TestWalkExcludePrunesDirectories(t *testing.T) {
	root := makeTree(t)

	paths, err := Collect(root, nil, []string{"node_modules", "sub"})
	require.NoError(t, err)

	for _, p := range relAll(t, root, paths) {
		assert.False(t, strings.HasPrefix(p, "node_modules"), "pruned path %s was yielded", p)
		assert.False(t, strings.HasPrefix(p, "pkg/sub"), "pruned path %s was yielded", p)
	}
	assert.Contains(t, relAll(t, root, paths), "pkg/c.py")
}

func TestWalkIncludeStillDescends(t *testing.T) {
	root := makeTree(t)

	paths, err := Collect(root, []string{"*.py"}, nil)
	require.NoError(t, err)

	// pkg and pkg/sub do not match *.py but are traversed anyway.
	assert.Equal(t, []string{"a.py", "pkg/c.py", "pkg/sub/d.py"}, relAll(t, root, paths))
}

func TestWalkAnchoredExcludeIsRelativeToRoot(t *testing.T) {
	root := makeTree(t)

	paths, err := Collect(root, []string{"*.o"}, []string{"/build"})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/build/keep.o"}, relAll(t, root, paths))
}

func TestWalkInvalidRoot(t *testing.T) {
	root := makeTree(t)

	_, err := Walk(filepath.Join(root, "a.py"), nil, nil)
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = Walk(filepath.Join(root, "missing"), nil, nil)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestWalkIsLazyAndRestartable(t *testing.T) {
	root := makeTree(t)

	seq, err := Walk(root, nil, nil)
	require.NoError(t, err)

	var first []string
	for p := range seq {
		first = append(first, p)
		if len(first) == 2 {
			break
		}
	}
	assert.Len(t, first, 2)

	// A second pass lists the tree again, including new entries.
	require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), []byte("x"), 0644))
	var all []string
	for p := range seq {
		all = append(all, p)
	}
	assert.Len(t, all, 14)
	assert.Equal(t, first, all[:2])
}
