package main

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/treefold/treefold/pkg/tree"
)

func join(parts ...string) string {
	return string(filepath.Separator) + filepath.Join(parts...)
}

func TestBuildRowPropsFoldedLabel(t *testing.T) {
	m := tree.NewCompressedModel[string](tree.CompressedModelOptions[string]{})
	a, b, c := join("r", "a"), join("r", "a", "b"), join("r", "a", "b", "c")
	leaf := join("r", "a", "b", "c", "leaf.go")

	els := []tree.Element[string]{{
		Value: a,
		Children: slices.Values([]tree.Element[string]{{
			Value: b,
			Children: slices.Values([]tree.Element[string]{{
				Value: c,
				Children: slices.Values([]tree.Element[string]{
					{Value: leaf, Incompressible: true},
				}),
			}}),
		}}),
	}}
	if _, err := m.SetChildren("", slices.Values(els), nil, nil); err != nil {
		t.Fatal(err)
	}

	rows := m.VisibleNodes()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	dirs := map[string]bool{a: true, b: true, c: true}
	isDir := func(p string) bool { return dirs[p] }
	loaded := map[string]bool{a: true, b: true, c: true}

	top := buildRowProps(rows[0], loaded, isDir)
	wantLabel := strings.Join([]string{"a", "b", "c"}, string(filepath.Separator))
	if top.Label != wantLabel {
		t.Errorf("label: got %q, want %q", top.Label, wantLabel)
	}
	if !top.IsDir || top.Icon != expandedIcon || !top.Expanded {
		t.Errorf("chain row props: %+v", top)
	}
	if top.Depth != 0 {
		t.Errorf("chain depth: got %d", top.Depth)
	}

	leafProps := buildRowProps(rows[1], loaded, isDir)
	if leafProps.Label != "leaf.go" || leafProps.IsDir || leafProps.Icon != fileIcon {
		t.Errorf("leaf row props: %+v", leafProps)
	}
	if leafProps.Depth != 1 {
		t.Errorf("leaf depth: got %d", leafProps.Depth)
	}
}

func TestBuildRowPropsUnloadedDirectoryShowsCollapsed(t *testing.T) {
	m := tree.NewCompressedModel[string](tree.CompressedModelOptions[string]{})
	d := join("r", "d")
	if _, err := m.SetChildren("", slices.Values([]tree.Element[string]{{Value: d}}), nil, nil); err != nil {
		t.Fatal(err)
	}

	isDir := func(string) bool { return true }

	// Not loaded yet: no children in the model, but it must still advertise
	// that it expands.
	p := buildRowProps(m.VisibleNodes()[0], map[string]bool{}, isDir)
	if p.Icon != collapsedIcon || p.Expanded {
		t.Errorf("unloaded dir props: %+v", p)
	}

	// Loaded and genuinely empty: nothing to expand.
	p = buildRowProps(m.VisibleNodes()[0], map[string]bool{d: true}, isDir)
	if p.Icon != fileIcon {
		t.Errorf("loaded empty dir props: %+v", p)
	}
}
