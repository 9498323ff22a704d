package main

import (
	"path/filepath"
	"strings"

	"github.com/treefold/treefold/pkg/tree"
)

// rowProps is the pure display description of one visible row. All display
// logic lives here; rendering just applies styles.
type rowProps struct {
	Label    string // compacted run label, one segment per folded element
	Depth    int
	Icon     string
	IsDir    bool
	Expanded bool
}

// Icon constants.
const (
	expandedIcon  = "▼"
	collapsedIcon = "▶"
	fileIcon      = "•"
)

// buildRowProps converts a visible compressed node into display props.
// loaded marks directories whose contents are present in the model; a
// directory outside it still gets a collapsed icon so the user can tell it
// expands. isDir classifies paths, so the adapter needs no filesystem
// access of its own.
func buildRowProps(node *tree.Node[*tree.CompressedNode[string]], loaded map[string]bool, isDir func(string) bool) rowProps {
	run := node.Element()
	segments := make([]string, len(run.Elements))
	for i, p := range run.Elements {
		segments[i] = filepath.Base(p)
	}

	p := rowProps{
		Label: strings.Join(segments, string(filepath.Separator)),
		Depth: node.Depth(),
		IsDir: isDir(run.Last()),
	}
	switch {
	case !p.IsDir:
		p.Icon = fileIcon
	case node.Collapsible() && !node.Collapsed():
		p.Icon = expandedIcon
		p.Expanded = true
	case node.Collapsible() || !loaded[run.Last()]:
		p.Icon = collapsedIcon
	default:
		// Loaded and empty.
		p.Icon = fileIcon
	}
	return p
}
