package inherit

import (
	"errors"
	"slices"
	"testing"
)

func diamond() *Graph[string] {
	g := NewGraph[string]()
	g.AddNode("A")
	g.AddNode("B", "A")
	g.AddNode("C", "A")
	g.AddNode("D", "B", "C")
	return g
}

func TestLinearizeDiamondKeepsWrittenOrder(t *testing.T) {
	order, err := NewLinearizer(diamond()).Linearize("D")
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	want := []string{"D", "B", "C", "A"}
	if !slices.Equal(order.Nodes, want) {
		t.Fatalf("order = %v, want %v", order.Nodes, want)
	}
	if got := order.ConstructorOrder(); !slices.Equal(got, []string{"A", "C", "B", "D"}) {
		t.Fatalf("constructor order = %v", got)
	}
}

func TestSuperWalksPastCaller(t *testing.T) {
	order, _ := NewLinearizer(diamond()).Linearize("D")
	declaresF := func(k string) bool { return k != "D" }
	got, ok := order.Super("D", declaresF)
	if !ok || got != "B" {
		t.Fatalf("super from D = %q, want B", got)
	}
	got, ok = order.Super("B", declaresF)
	if !ok || got != "C" {
		t.Fatalf("super from B in D's order = %q, want C", got)
	}
	if _, ok := order.Super("A", declaresF); ok {
		t.Fatalf("super from the last base should find nothing")
	}
}

func TestLinearizeDeeperHierarchy(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("O")
	g.AddNode("A", "O")
	g.AddNode("B", "O")
	g.AddNode("C", "O")
	g.AddNode("K1", "A", "B")
	g.AddNode("K2", "B", "C")
	g.AddNode("Z", "K1", "K2")
	order, err := NewLinearizer(g).Linearize("Z")
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	want := []string{"Z", "K1", "A", "K2", "B", "C", "O"}
	if !slices.Equal(order.Nodes, want) {
		t.Fatalf("order = %v, want %v", order.Nodes, want)
	}
}

func TestUnlinearizable(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("A")
	g.AddNode("B", "A")
	// A before B contradicts B preceding its base A
	g.AddNode("X", "A", "B")
	_, err := NewLinearizer(g).Linearize("X")
	var f *Failure[string]
	if !errors.As(err, &f) || f.Kind != FailUnlinearizable {
		t.Fatalf("err = %v, want unlinearizable", err)
	}
}

func TestCycleFailsEveryMember(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("A", "C")
	g.AddNode("B", "A")
	g.AddNode("C", "B")
	g.AddNode("D", "A")
	orders, fails := NewLinearizer(g).All()
	if len(orders) != 0 {
		t.Fatalf("unexpected orders %v", orders)
	}
	for _, k := range []string{"A", "B", "C"} {
		if f := fails[k]; f == nil || f.Kind != FailCycle || len(f.Cycle) != 3 || f.Cycle[0] != k {
			t.Fatalf("%s: failure = %+v", k, f)
		}
	}
	if f := fails["D"]; f == nil || f.Kind != FailBaseFailed || f.Base != "A" {
		t.Fatalf("D: failure = %+v", fails["D"])
	}
}

func TestDuplicateBase(t *testing.T) {
	g := NewGraph[string]()
	g.AddNode("A")
	g.AddNode("B", "A", "A")
	_, err := NewLinearizer(g).Linearize("B")
	var f *Failure[string]
	if !errors.As(err, &f) || f.Kind != FailDuplicateBase {
		t.Fatalf("err = %v, want duplicate base", err)
	}
}
