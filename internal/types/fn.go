package types

import (
	"fmt"
	"slices"
	"strings"

	"solfront/internal/ast"
)

// FnKind distinguishes what a function type can be used for.
type FnKind uint8

const (
	FnInternal FnKind = iota
	FnExternal
	FnEvent
	FnError
	// FnBuiltin is a global or member function provided by the language.
	FnBuiltin
	// FnStructCtor builds a struct from its fields.
	FnStructCtor
	// FnCreation is `new C` or `new T[]`.
	FnCreation
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Kind       FnKind
	Params     []TypeID
	Returns    []TypeID
	Mutability ast.Mutability
	// Variadic functions accept any argument list, such as abi.encode.
	Variadic bool
	// Bound is set for library functions attached with `using for`; the first parameter is the receiver.
	Bound bool
}

// RegisterFn creates or finds a function type with the given signature.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	key := fnKey(info)
	if slot, ok := in.fnIndex[key]; ok {
		return in.Intern(Type{Kind: KindFunction, Payload: slot})
	}
	in.fns = append(in.fns, FnInfo{
		Kind:       info.Kind,
		Params:     slices.Clone(info.Params),
		Returns:    slices.Clone(info.Returns),
		Mutability: info.Mutability,
		Variadic:   info.Variadic,
		Bound:      info.Bound,
	})
	slot := slotOf(len(in.fns)-1, "fn info")
	in.fnIndex[key] = slot
	return in.internRaw(Type{Kind: KindFunction, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// WithFnKind returns the same signature with another kind, e.g. the external view of an internal function.
func (in *Interner) WithFnKind(id TypeID, kind FnKind) TypeID {
	info, ok := in.FnInfo(id)
	if !ok {
		return id
	}
	next := *info
	next.Kind = kind
	return in.RegisterFn(next)
}

// ReturnType collapses the return list: nothing is Unit, one value is itself, more is a tuple.
func (in *Interner) ReturnType(info *FnInfo) TypeID {
	switch len(info.Returns) {
	case 0:
		return in.builtins.Unit
	case 1:
		return info.Returns[0]
	}
	return in.RegisterTuple(info.Returns)
}

func fnKey(info FnInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%d|%t|%t|", info.Kind, info.Mutability, info.Variadic, info.Bound)
	writeIDs(&sb, info.Params)
	sb.WriteByte('>')
	writeIDs(&sb, info.Returns)
	return sb.String()
}

func writeIDs(sb *strings.Builder, ids []TypeID) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(sb, "%d", id)
	}
}
