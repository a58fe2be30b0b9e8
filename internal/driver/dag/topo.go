package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []NodeID   // dependencies before importers, present nodes only
	Batches [][]NodeID // waves whose members do not import each other
	Cyclic  bool
	Cycles  []NodeID // nodes left over once every acyclic node is sorted
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]NodeID, 0, nodeCount),
		Batches: make([][]NodeID, 0),
	}

	active := 0
	current := make([]NodeID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, nodeID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		var next []NodeID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[id] {
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, nodeID(i))
			}
		}
	}
	return topo
}

// CyclePath returns one import cycle through the nodes left in topo.Cycles,
// starting and ending at the same node. Nodes that only depend on a cycle are
// skipped.
func CyclePath(g Graph, topo *Topo) []NodeID {
	if topo == nil || !topo.Cyclic {
		return nil
	}
	left := make(map[NodeID]bool, len(topo.Cycles))
	for _, id := range topo.Cycles {
		left[id] = true
	}
	for _, start := range topo.Cycles {
		pos := map[NodeID]int{}
		var path []NodeID
		cur := start
		for {
			if at, ok := pos[cur]; ok {
				return append(path[at:], cur)
			}
			pos[cur] = len(path)
			path = append(path, cur)
			next, ok := firstLeft(g.Deps[cur], left)
			if !ok {
				break
			}
			cur = next
		}
	}
	return nil
}

func firstLeft(ids []NodeID, left map[NodeID]bool) (NodeID, bool) {
	for _, id := range ids {
		if left[id] {
			return id, true
		}
	}
	return 0, false
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}
