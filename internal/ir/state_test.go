package ir

import (
	"testing"

	"github.com/modellang/smtts-compiler/internal/names"
)

func sampleHierarchy() StateNode {
	return &Group{
		Seg: "Sys",
		Children: []StateNode{
			&Var{Seg: "counter", Init: IntConst(Int8, 0)},
			&Group{
				Seg: "replica",
				Children: []StateNode{
					&Var{Seg: "flag", Init: BoolConst(false)},
					&Chan{Seg: "ch", ElemType: Int32, ID: 0},
				},
			},
		},
	}
}

func TestWalkVisitsPreOrderWithQualifiedNames(t *testing.T) {
	root := sampleHierarchy()
	var seen []string
	Walk(root, names.FromSegment("Sys"), func(qn names.Name, n StateNode) {
		seen = append(seen, qn.String())
	})

	want := []string{"Sys", "Sys!counter", "Sys!replica", "Sys!replica!flag", "Sys!replica!ch"}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("position %d: got %q, want %q (full: %v)", i, seen[i], want[i], seen)
		}
	}
}

func TestWalkOrderIsStableAcrossCalls(t *testing.T) {
	root := sampleHierarchy()
	var first, second []string
	Walk(root, names.FromSegment("Sys"), func(qn names.Name, n StateNode) { first = append(first, qn.String()) })
	Walk(root, names.FromSegment("Sys"), func(qn names.Name, n StateNode) { second = append(second, qn.String()) })

	if len(first) != len(second) {
		t.Fatalf("length differs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Walk order not stable: %v vs %v", first, second)
		}
	}
}
