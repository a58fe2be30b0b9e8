package types

// OverloadStatus is the outcome of overload resolution.
type OverloadStatus uint8

const (
	OverloadOK OverloadStatus = iota
	OverloadNoMatch
	OverloadAmbiguous
)

// Candidate is one declaration of an overload set.
type Candidate struct {
	Params   []TypeID
	Variadic bool
}

// ResolveOverload filters cands by arity and implicit convertibility of args.
// Exact matches (every argument already has the parameter type, data
// locations aside) are preferred; any tie that remains is ambiguous.
// It returns the index of the chosen candidate and the indexes of every viable one.
func (in *Interner) ResolveOverload(cands []Candidate, args []TypeID) (int, OverloadStatus, []int) {
	var viable, exact []int
	for i, c := range cands {
		if c.Variadic {
			viable = append(viable, i)
			continue
		}
		if len(c.Params) != len(args) {
			continue
		}
		ok, isExact := true, true
		for j, p := range c.Params {
			if !in.ImplicitlyConvertible(args[j], p) {
				ok = false
				break
			}
			if in.StripLocation(args[j]) != in.StripLocation(p) {
				isExact = false
			}
		}
		if !ok {
			continue
		}
		viable = append(viable, i)
		if isExact {
			exact = append(exact, i)
		}
	}
	switch {
	case len(viable) == 0:
		return -1, OverloadNoMatch, nil
	case len(viable) == 1:
		return viable[0], OverloadOK, viable
	case len(exact) == 1:
		return exact[0], OverloadOK, viable
	}
	return -1, OverloadAmbiguous, viable
}
