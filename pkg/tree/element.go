package tree

import "iter"

// Element is one node of an uncompressed tree: a value plus a lazy, possibly
// unbounded sequence of child elements. A nil Children sequence means no
// children. Child sequences are consume-once: the transform functions iterate
// them at most a single time, left to right, and callers must not assume a
// sequence held by an intermediate result is restartable.
type Element[T any] struct {
	Value    T
	Children iter.Seq[Element[T]]

	// Incompressible marks an element that must always render as its own
	// row, even when it has exactly one child. Chains never fold through
	// such an element, though a chain may still start at one.
	Incompressible bool
}

// CompressedNode is the visible unit after compression: a maximal run of
// single-child elements folded into one row. Elements is ordered outermost
// first and is never empty. Nodes are always handled by pointer; pointer
// identity is node identity.
type CompressedNode[T any] struct {
	Elements []T

	// Incompressible is copied from the run's first element.
	Incompressible bool
}

// First returns the outermost element of the run.
func (n *CompressedNode[T]) First() T { return n.Elements[0] }

// Last returns the innermost element of the run. Rendered rows are keyed on
// this element.
func (n *CompressedNode[T]) Last() T { return n.Elements[len(n.Elements)-1] }

// indexOf returns the position of element within the run, or -1.
func indexOf[T comparable](n *CompressedNode[T], element T) int {
	for i, e := range n.Elements {
		if e == element {
			return i
		}
	}
	return -1
}
