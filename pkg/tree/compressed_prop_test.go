package tree

import (
	"fmt"
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// refTree is a plain parent→children description of the logical
// (uncompressed) tree, the oracle the compressed model is checked against.
type refTree struct {
	children map[string][]string
	flags    map[string]bool
}

func (r *refTree) reachable() []string {
	var out []string
	var walk func(parent string)
	walk = func(parent string) {
		for _, c := range r.children[parent] {
			out = append(out, c)
			walk(c)
		}
	}
	walk("")
	sort.Strings(out)
	return out
}

func (r *refTree) drop(element string) {
	for _, c := range r.children[element] {
		r.drop(c)
	}
	delete(r.children, element)
	delete(r.flags, element)
}

func (r *refTree) setChildren(parent string, names []string, incompressible []bool) {
	for _, old := range r.children[parent] {
		r.drop(old)
	}
	r.children[parent] = names
	for i, n := range names {
		r.flags[n] = incompressible[i]
	}
}

func (r *refTree) shapeOf(element string) shape {
	s := shape{Value: element, Incompressible: r.flags[element]}
	for _, c := range r.children[element] {
		s.Children = append(s.Children, r.shapeOf(c))
	}
	return s
}

func TestCompressedModelRandomEdits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewCompressedModel(CompressedModelOptions[string]{})
		ref := &refTree{children: map[string][]string{}, flags: map[string]bool{}}
		next := 0

		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for step := 0; step < steps; step++ {
			// Pick the root or any live element as the edit target.
			targets := append([]string{""}, ref.reachable()...)
			target := targets[rapid.IntRange(0, len(targets)-1).Draw(t, "target")]

			n := rapid.IntRange(0, 3).Draw(t, "children")
			names := make([]string, n)
			incompressible := make([]bool, n)
			elements := make([]Element[string], n)
			for i := 0; i < n; i++ {
				next++
				names[i] = fmt.Sprintf("e%d", next)
				incompressible[i] = rapid.Bool().Draw(t, "flag")
				elements[i] = Element[string]{Value: names[i], Incompressible: incompressible[i]}
			}

			if _, err := m.SetChildren(target, seqOf(elements...), nil, nil); err != nil {
				t.Fatalf("SetChildren(%q): %v", target, err)
			}
			ref.setChildren(target, names, incompressible)

			// Mapping completeness: the index keys are exactly the
			// reachable elements.
			want := ref.reachable()
			if got := m.Count(); got != len(want) {
				t.Fatalf("index size %d, want %d", got, len(want))
			}
			for _, e := range want {
				if !m.Has(e) {
					t.Fatalf("reachable element %q missing from index", e)
				}
			}

			// Single producer: every element resolves to the run that
			// lists it, and no two runs share an element.
			seen := map[string]*CompressedNode[string]{}
			var walkRuns func(node *Node[*CompressedNode[string]])
			walkRuns = func(node *Node[*CompressedNode[string]]) {
				for _, c := range node.Children() {
					run := c.Element()
					for _, e := range run.Elements {
						if prev, dup := seen[e]; dup && prev != run {
							t.Fatalf("element %q owned by two runs", e)
						}
						seen[e] = run
						indexed, err := m.GetCompressedNode(e)
						if err != nil {
							t.Fatalf("lookup %q: %v", e, err)
						}
						if indexed != run {
							t.Fatalf("index for %q points at the wrong run", e)
						}
					}
					walkRuns(c)
				}
			}
			rootNode, err := m.GetNode("")
			if err != nil {
				t.Fatalf("root: %v", err)
			}
			walkRuns(rootNode)

			// Decompressed view reproduces the logical tree.
			for i, c := range rootNode.Children() {
				got := materialize(Decompress(nodeElement(c)))
				wantShape := ref.shapeOf(ref.children[""][i])
				if !shapeEqual(got, wantShape) {
					t.Fatalf("decompressed view mismatch\n got: %+v\nwant: %+v", got, wantShape)
				}
			}
		}
	})
}
