package tree

import "iter"

// Compress folds element and every maximal run of single-child descendants
// into compressed nodes. The child sequence of each visited element is
// materialized at most two items at a time: two is the minimum lookahead that
// distinguishes "exactly one child" from "zero or two-or-more" without
// forcing an unbounded sequence. Items materialized during lookahead are
// re-prepended to the unread tail, so the resulting children sequence is
// complete and duplicate-free.
//
// The run stops at the first element with zero or multiple children, and
// stops before absorbing an incompressible child: that child stays in the
// children sequence and starts its own run.
func Compress[T any](element Element[T]) Element[*CompressedNode[T]] {
	elements := []T{element.Value}
	children := element.Children
	for {
		head, tail := take(children, 2)
		if len(head) != 1 {
			children = prepend(head, tail)
			break
		}
		child := head[0]
		if child.Incompressible {
			children = prepend(head, tail)
			break
		}
		elements = append(elements, child.Value)
		children = child.Children
	}
	node := &CompressedNode[T]{
		Elements:       elements,
		Incompressible: element.Incompressible,
	}
	return Element[*CompressedNode[T]]{
		Value:    node,
		Children: mapSeq(children, Compress[T]),
	}
}

// Decompress unfolds a compressed element back into the original shape,
// one row per element. It is the exact structural inverse of Compress:
// Decompress(Compress(x)) reproduces x's values and child order.
func Decompress[T any](element Element[*CompressedNode[T]]) Element[T] {
	return decompressAt(element, 0)
}

// decompressAt unfolds the run starting at the given index. Every element
// before the last gets exactly one synthetic child, the next run element;
// the last element receives the node's own children, each decompressed in
// turn. The incompressible flag belongs to the run's first element only.
func decompressAt[T any](element Element[*CompressedNode[T]], index int) Element[T] {
	node := element.Value
	var children iter.Seq[Element[T]]
	if index < len(node.Elements)-1 {
		children = func(yield func(Element[T]) bool) {
			yield(decompressAt(element, index+1))
		}
	} else {
		children = mapSeq(element.Children, Decompress[T])
	}
	return Element[T]{
		Value:          node.Elements[index],
		Children:       children,
		Incompressible: index == 0 && node.Incompressible,
	}
}

// Splice returns element's subtree with the node whose value equals target
// given the new children, all other nodes structurally copied with
// recursively spliced child sequences. Used to apply a localized edit inside
// an already-decompressed run before recompressing it.
func Splice[T comparable](element Element[T], target T, children iter.Seq[Element[T]]) Element[T] {
	if element.Value == target {
		return Element[T]{
			Value:          element.Value,
			Children:       children,
			Incompressible: element.Incompressible,
		}
	}
	return Element[T]{
		Value: element.Value,
		Children: mapSeq(element.Children, func(child Element[T]) Element[T] {
			return Splice(child, target, children)
		}),
		Incompressible: element.Incompressible,
	}
}
