package tree

import (
	"fmt"
	"iter"

	"github.com/treefold/treefold/pkg/types"
)

// Node is one stored node of an ObjectModel. Nodes are constructed only by
// the model; callers hold references returned by it.
type Node[E comparable] struct {
	element     E
	parent      *Node[E]
	children    []*Node[E]
	depth       int
	collapsible bool
	collapsed   bool
	visible     bool
	renderCount int
	listIndex   int
}

// Element returns the element this node wraps. The root node returns the
// zero value.
func (n *Node[E]) Element() E { return n.element }

// Parent returns the parent node, or nil for the root.
func (n *Node[E]) Parent() *Node[E] { return n.parent }

// Children returns the node's children in order. The slice is owned by the
// model and must not be modified.
func (n *Node[E]) Children() []*Node[E] { return n.children }

// Depth returns the node's distance from the root's children (0 for
// top-level nodes, -1 for the root itself).
func (n *Node[E]) Depth() int { return n.depth }

// Collapsible reports whether the node currently has children.
func (n *Node[E]) Collapsible() bool { return n.collapsible }

// Collapsed reports whether the node's children are hidden from the row list.
func (n *Node[E]) Collapsed() bool { return n.collapsed }

// Visible reports whether the node passes the current filter, directly or
// through a descendant.
func (n *Node[E]) Visible() bool { return n.visible }

// RenderCount returns the number of rows this node's subtree contributes
// when rendered: 0 when filtered out, 1 when collapsed, otherwise itself
// plus its children's counts.
func (n *Node[E]) RenderCount() int { return n.renderCount }

// ListIndex returns the node's position in the flattened visible row list,
// or -1 when it is filtered out or hidden behind a collapsed ancestor.
func (n *Node[E]) ListIndex() int { return n.listIndex }

// SpliceEvent describes one applied SetChildren call.
type SpliceEvent[E comparable] struct {
	Parent   E // zero value for the root
	Inserted []Element[E]
	Deleted  []Element[E]
}

// CollapseEvent describes one collapse-state change of a single node.
type CollapseEvent[E comparable] struct {
	Node      *Node[E]
	Collapsed bool
	Recursive bool
}

// ModelOptions configures an ObjectModel.
type ModelOptions[E comparable] struct {
	// CollapseByDefault makes freshly inserted nodes with children start
	// collapsed.
	CollapseByDefault bool

	// Filter decides which elements are visible. A node stays visible while
	// any descendant passes, so matches deep in the tree keep their ancestor
	// rows. Nil means everything passes.
	Filter func(E) bool
}

// ObjectModel is an in-memory tree store keyed by element identity. The zero
// value of E denotes the root and must never be used as an element. All
// operations are synchronous and single-threaded.
type ObjectModel[E comparable] struct {
	root  *Node[E]
	nodes map[E]*Node[E]
	rows  []*Node[E]
	opts  ModelOptions[E]

	splice        Event[SpliceEvent[E]]
	collapseState Event[CollapseEvent[E]]
	renderChange  Event[*Node[E]]
}

// NewObjectModel returns an empty model.
func NewObjectModel[E comparable](opts ModelOptions[E]) *ObjectModel[E] {
	return &ObjectModel[E]{
		root:  &Node[E]{depth: -1, visible: true, listIndex: -1},
		nodes: make(map[E]*Node[E]),
		opts:  opts,
	}
}

// OnSplice is the structural-change notification channel.
func (m *ObjectModel[E]) OnSplice() *Event[SpliceEvent[E]] { return &m.splice }

// OnCollapseChange is the collapse-state notification channel.
func (m *ObjectModel[E]) OnCollapseChange() *Event[CollapseEvent[E]] { return &m.collapseState }

// OnRenderCountChange fires for every node whose render count changed during
// an operation, children before parents.
func (m *ObjectModel[E]) OnRenderCountChange() *Event[*Node[E]] { return &m.renderChange }

// resolve maps an element to its node; the zero value resolves to the root.
func (m *ObjectModel[E]) resolve(element E) (*Node[E], error) {
	var zero E
	if element == zero {
		return m.root, nil
	}
	n, ok := m.nodes[element]
	if !ok {
		return nil, fmt.Errorf("element %v: %w", element, types.ErrNotFound)
	}
	return n, nil
}

// SetChildren replaces parent's child list with the given subtrees. An
// incoming child whose element matches an existing child is reused as-is,
// subtree included, and produces no callbacks; everything else is created
// and the unmatched old children are deleted. All onCreate callbacks for a
// call fire before the first onDelete, so an element moving between nodes
// within one call is never observed as absent.
//
// The returned sequence holds the replaced subtrees. On error the model is
// unchanged and no callback has fired.
func (m *ObjectModel[E]) SetChildren(
	parent E,
	children iter.Seq[Element[E]],
	onCreate func(*Node[E]),
	onDelete func(*Node[E]),
) (iter.Seq[Element[E]], error) {
	parentNode, err := m.resolve(parent)
	if err != nil {
		return nil, err
	}

	existing := make(map[E]*Node[E], len(parentNode.children))
	for _, c := range parentNode.children {
		existing[c.element] = c
	}

	var (
		newChildren []*Node[E]
		created     []*Node[E]
		createdSet  = make(map[E]*Node[E])
		reusedSet   = make(map[*Node[E]]bool)
	)
	if children != nil {
		for el := range children {
			if prev, ok := existing[el.Value]; ok {
				if reusedSet[prev] {
					return nil, fmt.Errorf("element %v: %w", el.Value, types.ErrDuplicateElement)
				}
				reusedSet[prev] = true
				newChildren = append(newChildren, prev)
				continue
			}
			n, buildErr := m.buildNode(el, parentNode, createdSet)
			if buildErr != nil {
				return nil, buildErr
			}
			newChildren = append(newChildren, n)
			created = append(created, n)
		}
	}

	var removed []*Node[E]
	for _, c := range parentNode.children {
		if !reusedSet[c] {
			removed = append(removed, c)
		}
	}
	removedSet := make(map[E]bool)
	for _, n := range removed {
		walkNodes(n, func(x *Node[E]) { removedSet[x.element] = true })
	}
	for e := range createdSet {
		if _, live := m.nodes[e]; live && !removedSet[e] {
			return nil, fmt.Errorf("element %v: %w", e, types.ErrDuplicateElement)
		}
	}

	// Commit. Nothing below can fail.
	parentNode.children = newChildren
	parentNode.collapsible = parentNode == m.root || len(newChildren) > 0
	if !parentNode.collapsible {
		parentNode.collapsed = false
	}
	for _, n := range created {
		walkNodes(n, func(x *Node[E]) { m.nodes[x.element] = x })
	}
	if onCreate != nil {
		for _, n := range created {
			walkNodes(n, onCreate)
		}
	}
	for _, n := range removed {
		walkNodes(n, func(x *Node[E]) {
			if _, fresh := createdSet[x.element]; !fresh {
				delete(m.nodes, x.element)
			}
		})
	}
	if onDelete != nil {
		for _, n := range removed {
			walkNodes(n, onDelete)
		}
	}

	changed := m.refresh()

	ev := SpliceEvent[E]{Parent: parent}
	for _, n := range created {
		ev.Inserted = append(ev.Inserted, nodeElement(n))
	}
	removedElements := make([]Element[E], 0, len(removed))
	for _, n := range removed {
		removedElements = append(removedElements, nodeElement(n))
	}
	ev.Deleted = removedElements
	m.splice.fire(ev)
	for _, n := range changed {
		m.renderChange.fire(n)
	}

	return seqOf(removedElements...), nil
}

// buildNode materializes one incoming subtree without touching model state,
// so a failed call leaves the model exactly as it was.
func (m *ObjectModel[E]) buildNode(el Element[E], parent *Node[E], createdSet map[E]*Node[E]) (*Node[E], error) {
	var zero E
	if el.Value == zero {
		return nil, types.ErrZeroElement
	}
	if _, dup := createdSet[el.Value]; dup {
		return nil, fmt.Errorf("element %v: %w", el.Value, types.ErrDuplicateElement)
	}
	n := &Node[E]{
		element:   el.Value,
		parent:    parent,
		depth:     parent.depth + 1,
		listIndex: -1,
	}
	createdSet[el.Value] = n
	if el.Children != nil {
		for c := range el.Children {
			child, err := m.buildNode(c, n, createdSet)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		}
	}
	n.collapsible = len(n.children) > 0
	n.collapsed = n.collapsible && m.opts.CollapseByDefault
	return n, nil
}

// walkNodes visits n and its descendants pre-order.
func walkNodes[E comparable](n *Node[E], visit func(*Node[E])) {
	visit(n)
	for _, c := range n.children {
		walkNodes(c, visit)
	}
}

// nodeElement converts a stored subtree back into element form. Children are
// produced lazily so untouched siblings passed through SetChildren are never
// materialized.
func nodeElement[E comparable](n *Node[E]) Element[E] {
	return Element[E]{
		Value: n.element,
		Children: func(yield func(Element[E]) bool) {
			for _, c := range n.children {
				if !yield(nodeElement(c)) {
					return
				}
			}
		},
	}
}

// refresh recomputes visibility, render counts and the flattened row list,
// returning every node whose render count changed, children first.
func (m *ObjectModel[E]) refresh() []*Node[E] {
	for _, c := range m.root.children {
		m.computeVisible(c)
	}
	var changed []*Node[E]
	total := 0
	for _, c := range m.root.children {
		total += m.computeCounts(c, &changed)
	}
	if total != m.root.renderCount {
		m.root.renderCount = total
		changed = append(changed, m.root)
	}
	m.rows = m.rows[:0]
	for _, c := range m.root.children {
		m.layoutRows(c)
	}
	return changed
}

func (m *ObjectModel[E]) computeVisible(n *Node[E]) bool {
	pass := m.opts.Filter == nil || m.opts.Filter(n.element)
	childVisible := false
	for _, c := range n.children {
		if m.computeVisible(c) {
			childVisible = true
		}
	}
	n.visible = pass || childVisible
	return n.visible
}

func (m *ObjectModel[E]) computeCounts(n *Node[E], changed *[]*Node[E]) int {
	n.listIndex = -1
	sum := 0
	for _, c := range n.children {
		sum += m.computeCounts(c, changed)
	}
	count := 0
	if n.visible {
		count = 1
		if !n.collapsed {
			count += sum
		}
	}
	if count != n.renderCount {
		n.renderCount = count
		*changed = append(*changed, n)
	}
	return count
}

func (m *ObjectModel[E]) layoutRows(n *Node[E]) {
	if !n.visible {
		return
	}
	n.listIndex = len(m.rows)
	m.rows = append(m.rows, n)
	if n.collapsed {
		return
	}
	for _, c := range n.children {
		m.layoutRows(c)
	}
}

// GetNode returns the node holding element; the zero value returns the root.
func (m *ObjectModel[E]) GetNode(element E) (*Node[E], error) {
	return m.resolve(element)
}

// Has reports whether element is currently stored.
func (m *ObjectModel[E]) Has(element E) bool {
	var zero E
	if element == zero {
		return false
	}
	_, ok := m.nodes[element]
	return ok
}

// GetParentElement returns the element of element's parent, or the zero
// value when the parent is the root.
func (m *ObjectModel[E]) GetParentElement(element E) (E, error) {
	var zero E
	if element == zero {
		return zero, fmt.Errorf("root: %w", types.ErrNoParent)
	}
	n, err := m.resolve(element)
	if err != nil {
		return zero, err
	}
	return n.parent.element, nil
}

// GetFirstElementChild returns the element of element's first child. The
// second return is false when element has no children.
func (m *ObjectModel[E]) GetFirstElementChild(element E) (E, bool, error) {
	var zero E
	n, err := m.resolve(element)
	if err != nil {
		return zero, false, err
	}
	if len(n.children) == 0 {
		return zero, false, nil
	}
	return n.children[0].element, true, nil
}

// GetListIndex returns element's position in the visible row list, or -1
// when it is not currently rendered.
func (m *ObjectModel[E]) GetListIndex(element E) (int, error) {
	n, err := m.resolve(element)
	if err != nil {
		return -1, err
	}
	return n.listIndex, nil
}

// GetListRenderCount returns the number of rows element's subtree
// contributes. The zero value returns the total row count.
func (m *ObjectModel[E]) GetListRenderCount(element E) (int, error) {
	n, err := m.resolve(element)
	if err != nil {
		return 0, err
	}
	return n.renderCount, nil
}

// IsCollapsible reports whether element currently has children.
func (m *ObjectModel[E]) IsCollapsible(element E) (bool, error) {
	n, err := m.resolve(element)
	if err != nil {
		return false, err
	}
	return n.collapsible, nil
}

// IsCollapsed reports whether element's children are hidden.
func (m *ObjectModel[E]) IsCollapsed(element E) (bool, error) {
	n, err := m.resolve(element)
	if err != nil {
		return false, err
	}
	return n.collapsed, nil
}

// SetCollapsed sets element's collapse state, recursively when requested,
// and reports whether any state changed. The zero value addresses the root:
// its own state never changes, but recursive still applies to all nodes.
func (m *ObjectModel[E]) SetCollapsed(element E, collapsed, recursive bool) (bool, error) {
	n, err := m.resolve(element)
	if err != nil {
		return false, err
	}
	changed := m.applyCollapse(n, collapsed, recursive)
	if changed {
		for _, c := range m.refresh() {
			m.renderChange.fire(c)
		}
	}
	return changed, nil
}

func (m *ObjectModel[E]) applyCollapse(n *Node[E], collapsed, recursive bool) bool {
	changed := false
	if n != m.root && n.collapsible && n.collapsed != collapsed {
		n.collapsed = collapsed
		changed = true
		m.collapseState.fire(CollapseEvent[E]{Node: n, Collapsed: collapsed, Recursive: recursive})
	}
	if recursive {
		for _, c := range n.children {
			if m.applyCollapse(c, collapsed, true) {
				changed = true
			}
		}
	}
	return changed
}

// ExpandTo expands every ancestor of element so its row becomes reachable.
func (m *ObjectModel[E]) ExpandTo(element E) error {
	n, err := m.resolve(element)
	if err != nil {
		return err
	}
	changed := false
	for p := n.parent; p != nil && p != m.root; p = p.parent {
		if p.collapsed {
			p.collapsed = false
			changed = true
			m.collapseState.fire(CollapseEvent[E]{Node: p, Collapsed: false})
		}
	}
	if changed {
		for _, c := range m.refresh() {
			m.renderChange.fire(c)
		}
	}
	return nil
}

// Refilter re-applies the filter to the whole tree.
func (m *ObjectModel[E]) Refilter() {
	for _, c := range m.refresh() {
		m.renderChange.fire(c)
	}
}

// VisibleNodes returns the flattened visible row list in render order. The
// slice is owned by the model and is only valid until the next mutation.
func (m *ObjectModel[E]) VisibleNodes() []*Node[E] { return m.rows }

// Count returns the number of stored elements.
func (m *ObjectModel[E]) Count() int { return len(m.nodes) }
