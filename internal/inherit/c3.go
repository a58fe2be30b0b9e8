package inherit

import (
	"slices"
)

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	done
)

// Linearizer memoizes linearizations of one graph.
type Linearizer[K comparable] struct {
	g      *Graph[K]
	state  map[K]visitState
	orders map[K]Order[K]
	fails  map[K]*Failure[K]
	stack  []K
}

func NewLinearizer[K comparable](g *Graph[K]) *Linearizer[K] {
	return &Linearizer[K]{
		g:      g,
		state:  make(map[K]visitState),
		orders: make(map[K]Order[K]),
		fails:  make(map[K]*Failure[K]),
	}
}

// Linearize returns the order for k: k first, then its ancestors so that every
// contract precedes its bases and written base order is kept at every level.
// For `D is B, C` with `B is A` and `C is A` the result is [D, B, C, A].
func (l *Linearizer[K]) Linearize(k K) (Order[K], error) {
	l.visit(k)
	if f, ok := l.fails[k]; ok {
		return Order[K]{}, f
	}
	return l.orders[k], nil
}

// All linearizes every node in insertion order.
func (l *Linearizer[K]) All() (map[K]Order[K], map[K]*Failure[K]) {
	for _, k := range l.g.nodes {
		l.visit(k)
	}
	return l.orders, l.fails
}

func (l *Linearizer[K]) visit(k K) {
	switch l.state[k] {
	case done:
		return
	case visiting:
		// back edge: every node on the stack from k onward is on the cycle
		i := slices.Index(l.stack, k)
		cycle := slices.Clone(l.stack[i:])
		for j, n := range cycle {
			rotated := append(slices.Clone(cycle[j:]), cycle[:j]...)
			l.fails[n] = &Failure[K]{Kind: FailCycle, Node: n, Cycle: rotated}
		}
		return
	}
	l.state[k] = visiting
	l.stack = append(l.stack, k)
	defer func() {
		l.stack = l.stack[:len(l.stack)-1]
		l.state[k] = done
	}()

	bases := l.g.bases[k]
	for i, b := range bases {
		if slices.Contains(bases[:i], b) {
			l.fail(k, &Failure[K]{Kind: FailDuplicateBase, Node: k, Base: b})
			return
		}
	}
	for _, b := range bases {
		l.visit(b)
	}
	if _, failed := l.fails[k]; failed {
		return
	}
	seqs := make([][]K, 0, len(bases)+1)
	for _, b := range bases {
		if _, failed := l.fails[b]; failed {
			l.fail(k, &Failure[K]{Kind: FailBaseFailed, Node: k, Base: b})
			return
		}
		seqs = append(seqs, slices.Clone(l.orders[b].Nodes))
	}
	seqs = append(seqs, slices.Clone(bases))
	merged, ok := merge(seqs)
	if !ok {
		l.fail(k, &Failure[K]{Kind: FailUnlinearizable, Node: k})
		return
	}
	l.orders[k] = Order[K]{Nodes: append([]K{k}, merged...)}
}

func (l *Linearizer[K]) fail(k K, f *Failure[K]) {
	if _, exists := l.fails[k]; !exists {
		l.fails[k] = f
	}
}

// merge is the C3 merge: repeatedly take the first head that does not appear
// in the tail of any sequence.
func merge[K comparable](seqs [][]K) ([]K, bool) {
	var out []K
	for {
		seqs = slices.DeleteFunc(seqs, func(s []K) bool { return len(s) == 0 })
		if len(seqs) == 0 {
			return out, true
		}
		var (
			head  K
			found bool
		)
		for _, s := range seqs {
			if !inAnyTail(seqs, s[0]) {
				head, found = s[0], true
				break
			}
		}
		if !found {
			return nil, false
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inAnyTail[K comparable](seqs [][]K, k K) bool {
	for _, s := range seqs {
		if slices.Contains(s[1:], k) {
			return true
		}
	}
	return false
}
