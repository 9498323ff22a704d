package main

import (
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/treefold/treefold/cmd/treefold/logger"
	"github.com/treefold/treefold/pkg/tree"
)

// scanner turns directory listings into tree elements. Elements are absolute
// paths; file elements are incompressible so a lone file never folds into
// its parent directory's run, and symlinked directories are incompressible
// so runs never fold through a link.
type scanner struct {
	root string
	col  *collate.Collator
}

func newScanner(root string) *scanner {
	return &scanner{
		root: root,
		col:  collate.New(language.Und, collate.IgnoreCase, collate.Numeric),
	}
}

type dirEntry struct {
	name    string
	path    string
	isDir   bool
	symlink bool
}

// list returns dir's entries, directories first, each group in collator
// order. Unreadable directories log and return nothing.
func (s *scanner) list(dir string) []dirEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("read dir failed", "dir", dir, "error", err)
		return nil
	}
	out := make([]dirEntry, 0, len(entries))
	for _, e := range entries {
		de := dirEntry{
			name:    e.Name(),
			path:    filepath.Join(dir, e.Name()),
			symlink: e.Type()&os.ModeSymlink != 0,
		}
		if de.symlink {
			if info, statErr := os.Stat(de.path); statErr == nil {
				de.isDir = info.IsDir()
			}
		} else {
			de.isDir = e.IsDir()
		}
		out = append(out, de)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].isDir != out[j].isDir {
			return out[i].isDir
		}
		return s.col.CompareString(out[i].name, out[j].name) < 0
	})
	return out
}

// elements returns dir's children as elements. loaded reports whether a
// directory's full listing belongs in the model; outside the loaded set only
// lone-child directory chains are followed, so a collapsed run folds to one
// row without pulling in whole subtrees. The sequence re-lists every time it
// is consumed, which keeps a refresh of an ancestor from flattening already
// expanded content below it.
func (s *scanner) elements(dir string, loaded func(string) bool) iter.Seq[tree.Element[string]] {
	return func(yield func(tree.Element[string]) bool) {
		entries := s.list(dir)
		if !loaded(dir) {
			if len(entries) == 1 && entries[0].isDir && !entries[0].symlink {
				yield(s.element(entries[0], loaded))
			}
			return
		}
		for _, e := range entries {
			if !yield(s.element(e, loaded)) {
				return
			}
		}
	}
}

func (s *scanner) element(e dirEntry, loaded func(string) bool) tree.Element[string] {
	if !e.isDir {
		return tree.Element[string]{Value: e.path, Incompressible: true}
	}
	return tree.Element[string]{
		Value:          e.path,
		Children:       s.elements(e.path, loaded),
		Incompressible: e.symlink,
	}
}

// chainedDirs returns every directory folded into the run rooted at dir,
// dir included. All but the last have their sole child in the model once
// the run is built, so callers treat them as loaded.
func (s *scanner) chainedDirs(dir string) []string {
	out := []string{dir}
	for {
		entries := s.list(dir)
		if len(entries) != 1 || !entries[0].isDir || entries[0].symlink {
			return out
		}
		dir = entries[0].path
		out = append(out, dir)
	}
}

// hiddenWithin reports whether path has a dot-prefixed component below root.
func hiddenWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
