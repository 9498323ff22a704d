package tree

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// genShape draws a random finite tree with unique values and random
// incompressible flags.
func genShape(t *rapid.T, depth int, counter *int) shape {
	*counter++
	s := shape{
		Value:          fmt.Sprintf("n%d", *counter),
		Incompressible: rapid.Bool().Draw(t, "incompressible"),
	}
	if depth >= 4 {
		return s
	}
	n := rapid.IntRange(0, 3).Draw(t, "children")
	for i := 0; i < n; i++ {
		s.Children = append(s.Children, genShape(t, depth+1, counter))
	}
	return s
}

func TestCompressDecompressRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counter := 0
		want := genShape(t, 0, &counter)
		got := materialize(Decompress(Compress(rebuild(want))))
		if !shapeEqual(got, want) {
			t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
		}
	})
}

func TestCompressChainBoundaryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counter := 0
		s := genShape(t, 0, &counter)
		flags := make(map[string]bool)
		collectFlags(s, flags)

		var check func(c chain)
		check = func(c chain) {
			if len(c.Elements) == 0 {
				t.Fatalf("empty run")
			}
			// Only the first element of a run may be incompressible.
			for _, e := range c.Elements[1:] {
				if flags[e] {
					t.Fatalf("incompressible element %q absorbed into run %v", e, c.Elements)
				}
			}
			if c.Incompressible != flags[c.Elements[0]] {
				t.Fatalf("run %v flag %v, element flag %v", c.Elements, c.Incompressible, flags[c.Elements[0]])
			}
			for _, child := range c.Children {
				check(child)
			}
		}
		check(materializeChains(Compress(rebuild(s))))
	})
}

func collectFlags(s shape, flags map[string]bool) {
	flags[s.Value] = s.Incompressible
	for _, c := range s.Children {
		collectFlags(c, flags)
	}
}

func shapeEqual(a, b shape) bool {
	if a.Value != b.Value || a.Incompressible != b.Incompressible || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !shapeEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
