package inherit

import (
	"slices"
)

// Order is a linearization: Nodes[0] is the contract itself, the last entry its most basic ancestor.
type Order[K comparable] struct {
	Nodes []K
}

func (o Order[K]) Len() int { return len(o.Nodes) }

// IndexOf returns the position of k or -1.
func (o Order[K]) IndexOf(k K) int {
	return slices.Index(o.Nodes, k)
}

// Super returns the first contract after from that satisfies declares.
// It is the target of `super.f` written inside from.
func (o Order[K]) Super(from K, declares func(K) bool) (K, bool) {
	var zero K
	i := o.IndexOf(from)
	if i < 0 {
		return zero, false
	}
	for _, k := range o.Nodes[i+1:] {
		if declares(k) {
			return k, true
		}
	}
	return zero, false
}

// MostDerived returns the first contract in the order that satisfies declares,
// which provides the implementation seen by the contract at the head of the order.
func (o Order[K]) MostDerived(declares func(K) bool) (K, bool) {
	var zero K
	for _, k := range o.Nodes {
		if declares(k) {
			return k, true
		}
	}
	return zero, false
}

// ConstructorOrder lists contracts in constructor execution order, most basic first.
func (o Order[K]) ConstructorOrder() []K {
	out := slices.Clone(o.Nodes)
	slices.Reverse(out)
	return out
}

// Ancestors returns the order without the contract itself.
func (o Order[K]) Ancestors() []K {
	if len(o.Nodes) == 0 {
		return nil
	}
	return o.Nodes[1:]
}
