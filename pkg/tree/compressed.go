package tree

import (
	"fmt"
	"iter"

	"github.com/treefold/treefold/pkg/types"
)

// CompressedModel keeps a compressed view of an element tree synchronized
// with incremental edits expressed against the uncompressed shape. It owns
// an element→node index mapping every live original element to the
// compressed node whose run currently contains it, and delegates all storage
// to an ObjectModel keyed by compressed-node identity.
//
// The zero value of T denotes the root and must never be used as an element.
type CompressedModel[T comparable] struct {
	model *ObjectModel[*CompressedNode[T]]
	nodes map[T]*CompressedNode[T]

	splice Event[SpliceEvent[T]]
}

// CompressedModelOptions configures a CompressedModel.
type CompressedModelOptions[T comparable] struct {
	// CollapseByDefault makes freshly inserted compressed nodes with
	// children start collapsed.
	CollapseByDefault bool

	// Filter decides visibility per compressed node.
	Filter func(*CompressedNode[T]) bool
}

// NewCompressedModel returns an empty model.
func NewCompressedModel[T comparable](opts CompressedModelOptions[T]) *CompressedModel[T] {
	m := &CompressedModel[T]{
		nodes: make(map[T]*CompressedNode[T]),
	}
	m.model = NewObjectModel(ModelOptions[*CompressedNode[T]]{
		CollapseByDefault: opts.CollapseByDefault,
		Filter:            opts.Filter,
	})
	m.model.OnSplice().Listen(func(ev SpliceEvent[*CompressedNode[T]]) {
		out := SpliceEvent[T]{}
		if ev.Parent != nil {
			out.Parent = ev.Parent.Last()
		}
		for _, el := range ev.Inserted {
			out.Inserted = append(out.Inserted, Decompress(el))
		}
		for _, el := range ev.Deleted {
			out.Deleted = append(out.Deleted, Decompress(el))
		}
		m.splice.fire(out)
	})
	return m
}

// OnSplice is the structural-change notification channel, typed over
// original elements: inserted and deleted subtrees arrive decompressed.
func (m *CompressedModel[T]) OnSplice() *Event[SpliceEvent[T]] { return &m.splice }

// OnCollapseChange re-exports the wrapped model's collapse-state channel.
// Payloads carry compressed nodes.
func (m *CompressedModel[T]) OnCollapseChange() *Event[CollapseEvent[*CompressedNode[T]]] {
	return m.model.OnCollapseChange()
}

// OnRenderCountChange re-exports the wrapped model's render-count channel.
// Payloads carry compressed nodes.
func (m *CompressedModel[T]) OnRenderCountChange() *Event[*Node[*CompressedNode[T]]] {
	return m.model.OnRenderCountChange()
}

// SetChildren replaces element's children with the given uncompressed
// subtrees and keeps the element→node index synchronized through the wrapped
// model's create/delete callbacks. The zero value addresses the root.
//
// For a non-root element the containing run is decompressed, the new
// children are spliced in at the element's position, and the run is
// recompressed and swapped into its parent's child list by node identity,
// so the wrapped model's callbacks scope to the affected subtree only.
//
// The optional onCreate/onDelete callbacks observe the wrapped model's
// compressed nodes, after the index has been updated for them. The returned
// sequence is the decompressed view of the subtrees the wrapped model
// replaced. The incoming subtrees are validated first (no zero values, no
// duplicates within the batch, no re-insertion of an element that survives
// the edit in the target's own ancestor chain); on any error neither the
// wrapped model nor the index is touched.
func (m *CompressedModel[T]) SetChildren(
	element T,
	children iter.Seq[Element[T]],
	onCreate func(*Node[*CompressedNode[T]]),
	onDelete func(*Node[*CompressedNode[T]]),
) (iter.Seq[Element[T]], error) {
	inserted := make(map[T]bool)
	wrappedCreate := func(n *Node[*CompressedNode[T]]) {
		for _, e := range n.Element().Elements {
			inserted[e] = true
			m.nodes[e] = n.Element()
		}
		if onCreate != nil {
			onCreate(n)
		}
	}
	wrappedDelete := func(n *Node[*CompressedNode[T]]) {
		for _, e := range n.Element().Elements {
			if !inserted[e] {
				delete(m.nodes, e)
			}
		}
		if onDelete != nil {
			onDelete(n)
		}
	}

	seen := make(map[T]bool)
	batch, err := materializeBatch(children, seen)
	if err != nil {
		return nil, err
	}

	var zero T
	if element == zero {
		result, err := m.model.SetChildren(nil, mapSeq(seqOf(batch...), Compress[T]), wrappedCreate, wrappedDelete)
		if err != nil {
			return nil, err
		}
		return mapSeq(result, Decompress[T]), nil
	}

	node, ok := m.nodes[element]
	if !ok {
		return nil, fmt.Errorf("element %v: %w", element, types.ErrNotFound)
	}
	underlying, err := m.model.GetNode(node)
	if err != nil {
		return nil, err
	}
	parent := underlying.Parent()
	if parent == nil {
		return nil, fmt.Errorf("element %v: %w", element, types.ErrNoParent)
	}

	// The batch replaces everything below element, so elements at or above it
	// survive the edit. Re-inserting one of them would leave the index
	// pointing at two live runs at once.
	for p := underlying; p != nil && p.Element() != nil; p = p.Parent() {
		limit := len(p.Element().Elements)
		if p == underlying {
			limit = indexOf(p.Element(), element) + 1
		}
		for _, e := range p.Element().Elements[:limit] {
			if seen[e] {
				return nil, fmt.Errorf("element %v: %w", e, types.ErrDuplicateElement)
			}
		}
	}

	recompressed := Compress(Splice(Decompress(nodeElement(underlying)), element, seqOf(batch...)))
	parentChildren := make([]Element[*CompressedNode[T]], 0, len(parent.Children()))
	for _, c := range parent.Children() {
		if c == underlying {
			parentChildren = append(parentChildren, recompressed)
		} else {
			parentChildren = append(parentChildren, nodeElement(c))
		}
	}

	result, err := m.model.SetChildren(parent.Element(), seqOf(parentChildren...), wrappedCreate, wrappedDelete)
	if err != nil {
		return nil, err
	}
	return mapSeq(result, Decompress[T]), nil
}

// materializeBatch consumes an incoming child forest into element form,
// rejecting zero values and duplicates within the batch before the model is
// touched. Uniqueness against sibling subtrees remains the caller's
// contract; the index cannot hold two runs for one element.
func materializeBatch[T comparable](children iter.Seq[Element[T]], seen map[T]bool) ([]Element[T], error) {
	if children == nil {
		return nil, nil
	}
	var (
		zero T
		out  []Element[T]
	)
	for el := range children {
		if el.Value == zero {
			return nil, types.ErrZeroElement
		}
		if seen[el.Value] {
			return nil, fmt.Errorf("element %v: %w", el.Value, types.ErrDuplicateElement)
		}
		seen[el.Value] = true
		kids, err := materializeBatch(el.Children, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, Element[T]{
			Value:          el.Value,
			Children:       seqOf(kids...),
			Incompressible: el.Incompressible,
		})
	}
	return out, nil
}

// GetCompressedNode returns the compressed node whose run contains element.
func (m *CompressedModel[T]) GetCompressedNode(element T) (*CompressedNode[T], error) {
	n, ok := m.nodes[element]
	if !ok {
		return nil, fmt.Errorf("element %v: %w", element, types.ErrNotFound)
	}
	return n, nil
}

// Has reports whether element is currently anywhere in the tree.
func (m *CompressedModel[T]) Has(element T) bool {
	_, ok := m.nodes[element]
	return ok
}

// GetNode returns the wrapped model's node for the run containing element.
// The zero value returns the root node.
func (m *CompressedModel[T]) GetNode(element T) (*Node[*CompressedNode[T]], error) {
	var zero T
	if element == zero {
		return m.model.GetNode(nil)
	}
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return nil, err
	}
	return m.model.GetNode(node)
}

// GetNodeLocation returns the original element a node's row is keyed on:
// the innermost element of its run. The root returns the zero value.
func (m *CompressedModel[T]) GetNodeLocation(node *Node[*CompressedNode[T]]) T {
	var zero T
	if node.Element() == nil {
		return zero
	}
	return node.Element().Last()
}

// GetParentElement returns element's parent in the uncompressed shape.
// Inside a run that is the previous run element; at the run boundary it is
// the innermost element of the structural parent's run. The zero value
// means the parent is the root.
func (m *CompressedModel[T]) GetParentElement(element T) (T, error) {
	var zero T
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return zero, err
	}
	if i := indexOf(node, element); i > 0 {
		return node.Elements[i-1], nil
	}
	underlying, err := m.model.GetNode(node)
	if err != nil {
		return zero, err
	}
	parent := underlying.Parent()
	if parent == nil || parent.Element() == nil {
		return zero, nil
	}
	return parent.Element().Last(), nil
}

// GetParentNodeLocation returns the element keying the parent row of the
// run containing element, which coincides with GetParentElement for
// elements at their run boundary.
func (m *CompressedModel[T]) GetParentNodeLocation(element T) (T, error) {
	return m.GetParentElement(element)
}

// GetFirstElementChild returns element's first child in the uncompressed
// shape: the next run element when element is not the innermost of its run,
// otherwise the outermost element of the first child run. The second return
// is false when element has no children.
func (m *CompressedModel[T]) GetFirstElementChild(element T) (T, bool, error) {
	var zero T
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return zero, false, err
	}
	if i := indexOf(node, element); i < len(node.Elements)-1 {
		return node.Elements[i+1], true, nil
	}
	child, ok, err := m.model.GetFirstElementChild(node)
	if err != nil || !ok {
		return zero, ok, err
	}
	return child.First(), true, nil
}

// GetLastElementAncestor returns the innermost element of the run that
// contains element, i.e. the element whose row represents it in the list.
func (m *CompressedModel[T]) GetLastElementAncestor(element T) (T, error) {
	var zero T
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return zero, err
	}
	return node.Last(), nil
}

// GetListIndex returns the visible row index of the run containing element,
// or -1 when it is not currently rendered.
func (m *CompressedModel[T]) GetListIndex(element T) (int, error) {
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return -1, err
	}
	return m.model.GetListIndex(node)
}

// GetListRenderCount returns the number of rows contributed by the subtree
// of the run containing element. The zero value returns the total.
func (m *CompressedModel[T]) GetListRenderCount(element T) (int, error) {
	var zero T
	if element == zero {
		return m.model.GetListRenderCount(nil)
	}
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return 0, err
	}
	return m.model.GetListRenderCount(node)
}

// IsCollapsible reports whether the run containing element has children.
func (m *CompressedModel[T]) IsCollapsible(element T) (bool, error) {
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return false, err
	}
	return m.model.IsCollapsible(node)
}

// IsCollapsed reports whether the run containing element is collapsed.
func (m *CompressedModel[T]) IsCollapsed(element T) (bool, error) {
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return false, err
	}
	return m.model.IsCollapsed(node)
}

// SetCollapsed sets the collapse state of the run containing element and
// reports whether any state changed. The zero value addresses the root.
func (m *CompressedModel[T]) SetCollapsed(element T, collapsed, recursive bool) (bool, error) {
	var zero T
	if element == zero {
		return m.model.SetCollapsed(nil, collapsed, recursive)
	}
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return false, err
	}
	return m.model.SetCollapsed(node, collapsed, recursive)
}

// ExpandTo expands every ancestor run so element's row becomes reachable.
func (m *CompressedModel[T]) ExpandTo(element T) error {
	node, err := m.GetCompressedNode(element)
	if err != nil {
		return err
	}
	return m.model.ExpandTo(node)
}

// Refilter re-applies the filter; there is no compression-layer state to
// adjust.
func (m *CompressedModel[T]) Refilter() { m.model.Refilter() }

// VisibleNodes returns the flattened visible row list of compressed nodes.
func (m *CompressedModel[T]) VisibleNodes() []*Node[*CompressedNode[T]] {
	return m.model.VisibleNodes()
}

// Count returns the number of original elements currently indexed.
func (m *CompressedModel[T]) Count() int { return len(m.nodes) }
