// Package fileutil provides glob matching and filtered directory walking.
//
// It is the file-collection engine behind linting, cleaning and script
// file selection. Two pattern operations are offered:
//
//   - MatchesAny: the path must match a pattern completely.
//   - PathContainsAny: a pattern may match anywhere inside the path. This is
//     the variant used for exclusion, so "node_modules" prunes every path
//     going through a node_modules directory.
//
// Patterns use shell glob syntax (*, ?, [...], [!...]). Unlike path.Match a
// "*" also crosses path separators, so "*.py" matches "src/pkg/mod.py".
// A pattern starting with "/" is anchored: it only matches from the start of
// the path (relative to the walk root when walking).
//
// # Walking
//
// Walk lists a directory tree lazily as an iter.Seq:
//
//	seq, err := fileutil.Walk("/path/to/project", []string{"*.go"}, []string{"vendor", ".git"})
//	if err != nil {
//	    return err
//	}
//	for path := range seq {
//	    fmt.Println(path)
//	}
//
// Excluded entries are never yielded and excluded directories are never
// entered. Include patterns only decide what gets yielded: a directory that
// does not match them is still traversed. Siblings are visited in lexical
// order so output is deterministic.
package fileutil
