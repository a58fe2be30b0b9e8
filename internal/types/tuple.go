package types

import (
	"slices"
	"strings"
)

// TupleInfo stores the element types for a tuple type. NoTypeID marks an
// empty component, as in `(, b) = f()`.
type TupleInfo struct {
	Elems []TypeID
}

// RegisterTuple creates or finds a tuple type with the given elements.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	var sb strings.Builder
	writeIDs(&sb, elems)
	key := sb.String()
	if slot, ok := in.tupIndex[key]; ok {
		return in.Intern(Type{Kind: KindTuple, Payload: slot})
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: slices.Clone(elems)})
	slot := slotOf(len(in.tuples)-1, "tuple info")
	in.tupIndex[key] = slot
	return in.internRaw(Type{Kind: KindTuple, Payload: slot})
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}
