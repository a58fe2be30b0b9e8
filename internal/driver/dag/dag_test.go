package dag

import (
	"reflect"
	"testing"
)

func names(idx Index, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[id]
	}
	return out
}

func node(path string, imports ...string) Node {
	n := Node{Path: path}
	for _, imp := range imports {
		n.Imports = append(n.Imports, Import{Path: imp})
	}
	return n
}

func TestBuildIndexIncludesImports(t *testing.T) {
	idx := BuildIndex([]Node{
		node("main.sol", "lib/math.sol", "lib/util.sol"),
		node("lib/util.sol"),
	})
	want := []string{"lib/math.sol", "lib/util.sol", "main.sol"}
	if !reflect.DeepEqual(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id := idx.NameToID[name]; int(id) != i {
			t.Fatalf("NameToID[%q] = %d, want %d", name, id, i)
		}
	}
}

func TestToposortBatchesDependenciesFirst(t *testing.T) {
	nodes := []Node{
		node("app.sol", "token.sol", "math.sol"),
		node("token.sol", "math.sol"),
		node("math.sol"),
		node("other.sol"),
	}
	idx := BuildIndex(nodes)
	g := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", names(idx, topo.Cycles))
	}
	got := make([][]string, len(topo.Batches))
	for i, b := range topo.Batches {
		got[i] = names(idx, b)
	}
	want := [][]string{{"math.sol", "other.sol"}, {"token.sol"}, {"app.sol"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
	if closure := names(idx, g.Closure(idx.NameToID["app.sol"])); !reflect.DeepEqual(closure, []string{"math.sol", "token.sol", "app.sol"}) {
		t.Fatalf("closure = %v", closure)
	}
}

func TestMissingAndSelfImportsAddNoEdge(t *testing.T) {
	nodes := []Node{node("a.sol", "a.sol", "missing.sol")}
	idx := BuildIndex(nodes)
	g := BuildGraph(idx, nodes)
	if g.Present[idx.NameToID["missing.sol"]] {
		t.Fatalf("missing.sol marked present")
	}
	if g.Indeg[idx.NameToID["a.sol"]] != 0 {
		t.Fatalf("a.sol has deps %v", g.Deps[idx.NameToID["a.sol"]])
	}
	if topo := ToposortKahn(g); topo.Cyclic || len(topo.Order) != 1 {
		t.Fatalf("unexpected topo %+v", topo)
	}
}

func TestCycleDetected(t *testing.T) {
	nodes := []Node{
		node("a.sol", "b.sol"),
		node("b.sol", "c.sol"),
		node("c.sol", "a.sol"),
		node("d.sol", "a.sol"),
		node("e.sol"),
	}
	idx := BuildIndex(nodes)
	g := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("expected a cycle")
	}
	if got := names(idx, topo.Order); !reflect.DeepEqual(got, []string{"e.sol"}) {
		t.Fatalf("order = %v", got)
	}
	if got := names(idx, topo.Cycles); !reflect.DeepEqual(got, []string{"a.sol", "b.sol", "c.sol", "d.sol"}) {
		t.Fatalf("cycles = %v", got)
	}
	path := names(idx, CyclePath(g, topo))
	if want := []string{"a.sol", "b.sol", "c.sol", "a.sol"}; !reflect.DeepEqual(path, want) {
		t.Fatalf("cycle path = %v, want %v", path, want)
	}
}
