package dag

import "slices"

// Graph points from a dependency to the files importing it, so a Kahn sort
// yields dependencies first.
type Graph struct {
	Edges [][]NodeID // Edges[dep] = importers
	Deps  [][]NodeID // Deps[importer] = deps
	Indeg []int      // number of present deps not yet analysed
	// Present marks nodes that have text; the rest are only named by imports.
	Present []bool
}

// BuildGraph wires the imports of nodes. Imports of missing paths and
// self-imports add no edge.
func BuildGraph(idx Index, nodes []Node) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, n),
		Deps:    make([][]NodeID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for _, node := range nodes {
		if id, ok := idx.NameToID[node.Path]; ok {
			g.Present[id] = true
		}
	}
	for _, node := range nodes {
		from, ok := idx.NameToID[node.Path]
		if !ok {
			continue
		}
		seen := make(map[NodeID]struct{}, len(node.Imports))
		for _, imp := range node.Imports {
			to, ok := idx.NameToID[imp.Path]
			if !ok || to == from || !g.Present[to] {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[to] = append(g.Edges[to], from)
			g.Deps[from] = append(g.Deps[from], to)
			g.Indeg[from]++
		}
		slices.Sort(g.Deps[from])
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g
}

// Closure returns id and everything it transitively imports, dependencies
// before importers and ties broken by ID.
func (g Graph) Closure(id NodeID) []NodeID {
	var out []NodeID
	seen := make(map[NodeID]bool)
	var visit func(NodeID)
	visit = func(n NodeID) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, d := range g.Deps[n] {
			visit(d)
		}
		out = append(out, n)
	}
	visit(id)
	return out
}
