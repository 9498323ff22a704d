/*
Package tree implements a path-compressing tree model for rendering
hierarchical data in collapsed form: every maximal run of single-child,
non-incompressible ancestors is displayed as one row labeled with all the
elements of the run, the way nested folders a/b/c fold into a single line.

# Quick Start

Build a model keyed by your element type and feed it uncompressed edits:

	m := tree.NewCompressedModel(tree.CompressedModelOptions[string]{})
	m.SetChildren("", children, nil, nil) // "" is the root

	for _, node := range m.VisibleNodes() {
	    row := strings.Join(node.Element().Elements, "/")
	    ...
	}

Edits address original elements, even ones buried inside a folded run; the
model decompresses the affected run, splices the edit in, recompresses and
keeps its element→node index consistent throughout:

	m.SetChildren("b", newChildren, nil, nil)

# Layers

The package has three layers, each usable on its own:

  - Compress, Decompress and Splice: pure, mutually inverse transforms over
    Element values with lazy child sequences.
  - ObjectModel: an in-memory tree store keyed by element identity, with
    collapse/expand state, parent-preserving filtering, render counts and a
    flattened visible row list.
  - CompressedModel: the stateful wrapper combining both, maintaining the
    mapping from every original element to the compressed node currently
    containing it.

# Identity

Both models key storage by element equality and reserve the zero value of
the element type for the synthetic root. Element types must therefore carry
a stable identity in their value: string paths and integer ids work,
position-dependent values do not.

All operations are synchronous and single-threaded; notification channels
dispatch inline on the calling goroutine.
*/
package tree
