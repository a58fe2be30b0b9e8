package types

import (
	"math/big"

	"solfront/internal/ast"
)

// ConvContext selects which implicit conversions apply.
type ConvContext uint8

const (
	// ConvAssign covers assignments, arguments and returns.
	ConvAssign ConvContext = iota
	// ConvCompare is used for operands of equality and ordering, where fixed-bytes do not widen.
	ConvCompare
)

// ImplicitlyConvertible reports whether a value of type from may be used where to is expected.
func (in *Interner) ImplicitlyConvertible(from, to TypeID) bool {
	return in.Convertible(from, to, ConvAssign)
}

// Convertible applies the implicit conversion rules in ctx. The error type
// converts both ways so one mistake does not cascade.
func (in *Interner) Convertible(from, to TypeID, ctx ConvContext) bool {
	if from == to || in.IsError(from) || in.IsError(to) {
		return true
	}
	f, ok1 := in.Lookup(from)
	t, ok2 := in.Lookup(to)
	if !ok1 || !ok2 {
		return false
	}
	switch f.Kind {
	case KindInt:
		return t.Kind == KindInt && f.Signed == t.Signed && f.Bits <= t.Bits
	case KindFixedBytes:
		return t.Kind == KindFixedBytes && ctx == ConvAssign && f.Bits <= t.Bits
	case KindAddress:
		return t.Kind == KindAddress && (f.Payable || !t.Payable)
	case KindLiteralInt, KindLiteralRational:
		return in.literalConvertible(from, t)
	case KindLiteralString:
		s, _ := in.LiteralStringValue(from)
		switch t.Kind {
		case KindString, KindBytes:
			return t.Location != ast.LocCalldata
		case KindFixedBytes:
			return len(s) <= int(t.Bits)
		}
		return false
	case KindContract:
		return t.Kind == KindContract && in.IsBaseContract(from, to)
	case KindTuple:
		return in.tupleConvertible(from, to, ctx)
	case KindFunction:
		return in.fnConvertible(from, to)
	case KindArray, KindBytes, KindString, KindStruct:
		if in.StripLocation(from) != in.StripLocation(to) {
			return false
		}
		// calldata is read-only; nothing converts into it
		return t.Location != ast.LocCalldata || f.Location == ast.LocCalldata
	}
	return false
}

func (in *Interner) literalConvertible(from TypeID, t Type) bool {
	v, _ := in.LiteralValue(from)
	if !v.IsInt() {
		return false
	}
	n := v.Num()
	switch t.Kind {
	case KindInt:
		return FitsInt(n, t.Bits, t.Signed)
	case KindFixedBytes:
		return n.Sign() == 0
	}
	return false
}

func (in *Interner) tupleConvertible(from, to TypeID, ctx ConvContext) bool {
	fi, _ := in.TupleInfo(from)
	ti, ok := in.TupleInfo(to)
	if !ok || len(fi.Elems) != len(ti.Elems) {
		return false
	}
	for i := range fi.Elems {
		if ti.Elems[i] == NoTypeID {
			continue
		}
		if fi.Elems[i] == NoTypeID || !in.Convertible(fi.Elems[i], ti.Elems[i], ctx) {
			return false
		}
	}
	return true
}

// fnConvertible allows a function to be used where a less strict function type is expected.
func (in *Interner) fnConvertible(from, to TypeID) bool {
	fi, _ := in.FnInfo(from)
	ti, ok := in.FnInfo(to)
	if !ok || fi.Kind != ti.Kind || len(fi.Params) != len(ti.Params) || len(fi.Returns) != len(ti.Returns) {
		return false
	}
	for i := range fi.Params {
		if fi.Params[i] != ti.Params[i] {
			return false
		}
	}
	for i := range fi.Returns {
		if fi.Returns[i] != ti.Returns[i] {
			return false
		}
	}
	if fi.Mutability == ast.MutPayable {
		return ti.Mutability == ast.MutPayable || ti.Mutability == ast.MutNonPayable
	}
	return ti.Mutability != ast.MutPayable && fi.Mutability.Rank() <= ti.Mutability.Rank()
}

// ExplicitlyConvertible reports whether `T(x)` is allowed for x of type from and T = to.
func (in *Interner) ExplicitlyConvertible(from, to TypeID) bool {
	if in.ImplicitlyConvertible(from, to) {
		return true
	}
	f, _ := in.Lookup(from)
	t, ok := in.Lookup(to)
	if !ok {
		return false
	}
	switch f.Kind {
	case KindInt:
		switch t.Kind {
		case KindInt:
			return true
		case KindFixedBytes:
			return f.Bits == t.Bits*8
		case KindAddress:
			return !f.Signed && f.Bits == 160
		case KindEnum:
			return !f.Signed
		}
	case KindLiteralInt:
		n, _ := in.LiteralIntValue(from)
		switch t.Kind {
		case KindInt:
			return FitsInt(n, t.Bits, t.Signed)
		case KindFixedBytes:
			return n.Sign() >= 0 && n.BitLen() <= int(t.Bits)*8
		case KindAddress:
			return n.Sign() >= 0 && n.BitLen() <= 160
		case KindEnum:
			info := in.nominal(to)
			return n.Sign() >= 0 && n.Cmp(big.NewInt(int64(len(info.Members)))) < 0
		}
	case KindFixedBytes:
		switch t.Kind {
		case KindFixedBytes:
			return true
		case KindInt:
			return f.Bits*8 == t.Bits
		case KindAddress:
			return f.Bits == 20
		}
	case KindAddress:
		switch t.Kind {
		case KindAddress, KindContract:
			return true
		case KindInt:
			return !t.Signed && t.Bits == 160
		case KindFixedBytes:
			return t.Bits == 20
		}
	case KindContract:
		return t.Kind == KindAddress
	case KindEnum:
		return t.Kind == KindInt && !t.Signed
	case KindBytes:
		switch t.Kind {
		case KindString:
			return f.Location == t.Location
		case KindFixedBytes:
			return true
		}
	case KindString:
		return t.Kind == KindBytes && f.Location == t.Location
	case KindLiteralString:
		return t.Kind == KindBytes || t.Kind == KindString
	}
	return false
}

// Mobile returns the type a literal takes when it must be stored: the smallest
// intN or uintN holding an integer literal, and `string memory` for strings.
// Non-literal types are returned unchanged; non-integral rationals yield the error type.
func (in *Interner) Mobile(id TypeID) TypeID {
	tt, _ := in.Lookup(id)
	switch tt.Kind {
	case KindLiteralInt:
		n, _ := in.LiteralIntValue(id)
		signed := n.Sign() < 0
		for bits := uint16(8); bits <= 256; bits += 8 {
			if FitsInt(n, bits, signed) {
				return in.Intern(MakeInt(bits, signed))
			}
		}
		return in.builtins.Error
	case KindLiteralRational:
		return in.builtins.Error
	case KindLiteralString:
		return in.builtins.StringMemory
	case KindTuple:
		info, _ := in.TupleInfo(id)
		elems := make([]TypeID, len(info.Elems))
		for i, e := range info.Elems {
			if e != NoTypeID {
				elems[i] = in.Mobile(e)
			}
		}
		return in.RegisterTuple(elems)
	}
	return id
}

// CommonType returns the type both operands convert to in ctx, or false.
func (in *Interner) CommonType(a, b TypeID, ctx ConvContext) (TypeID, bool) {
	switch {
	case in.IsError(a) || in.IsError(b):
		return in.builtins.Error, true
	case in.IsNumberLiteral(a) && in.IsNumberLiteral(b):
		ma, mb := in.Mobile(a), in.Mobile(b)
		if t, ok := in.CommonType(ma, mb, ctx); ok {
			return t, true
		}
		return NoTypeID, false
	case in.Convertible(a, b, ctx):
		return b, true
	case in.Convertible(b, a, ctx):
		return a, true
	}
	return NoTypeID, false
}
