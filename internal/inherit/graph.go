// Package inherit computes C3 linearizations over an explicit base graph.
//
// The graph is built once per unit from the resolved `is` lists and is
// immutable afterwards; every linearization is a pure function of it.
package inherit

import (
	"fmt"
	"slices"
)

// Graph maps each node to its direct bases in written order.
type Graph[K comparable] struct {
	bases map[K][]K
	nodes []K
}

func NewGraph[K comparable]() *Graph[K] {
	return &Graph[K]{bases: make(map[K][]K)}
}

// AddNode records k with its direct bases. Adding a node twice replaces its bases.
func (g *Graph[K]) AddNode(k K, bases ...K) {
	if _, ok := g.bases[k]; !ok {
		g.nodes = append(g.nodes, k)
	}
	g.bases[k] = slices.Clone(bases)
}

func (g *Graph[K]) Has(k K) bool {
	_, ok := g.bases[k]
	return ok
}

func (g *Graph[K]) Bases(k K) []K {
	return g.bases[k]
}

// Nodes returns nodes in insertion order.
func (g *Graph[K]) Nodes() []K {
	return g.nodes
}

type FailureKind uint8

const (
	// FailCycle: the node reaches itself through its bases.
	FailCycle FailureKind = iota + 1
	// FailUnlinearizable: the base lists admit no consistent merge.
	FailUnlinearizable
	// FailBaseFailed: some base could not be linearized.
	FailBaseFailed
	// FailDuplicateBase: a base is listed twice.
	FailDuplicateBase
)

func (k FailureKind) String() string {
	switch k {
	case FailCycle:
		return "cycle"
	case FailUnlinearizable:
		return "unlinearizable"
	case FailBaseFailed:
		return "base failed"
	case FailDuplicateBase:
		return "duplicate base"
	}
	return "unknown"
}

// Failure explains why Node has no linearization.
type Failure[K comparable] struct {
	Kind FailureKind
	Node K
	// Cycle lists the nodes on the cycle starting at Node, for FailCycle.
	Cycle []K
	// Base is the failed or duplicated base, when there is one.
	Base K
}

func (f *Failure[K]) Error() string {
	switch f.Kind {
	case FailCycle:
		return fmt.Sprintf("inheritance cycle through %v", f.Cycle)
	case FailBaseFailed:
		return fmt.Sprintf("%v: base %v cannot be linearized", f.Node, f.Base)
	case FailDuplicateBase:
		return fmt.Sprintf("%v: base %v listed more than once", f.Node, f.Base)
	}
	return fmt.Sprintf("%v: no consistent linearization of the base list", f.Node)
}
