package types

import "solfront/internal/token"

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint16

const (
	FamilyNone FamilyMask = 0
	FamilyBool FamilyMask = 1 << iota
	FamilyInt
	FamilyFixedBytes
	FamilyAddress
	FamilyEnum
	FamilyContract
	FamilyFunction
)

const familyOrdered = FamilyInt | FamilyFixedBytes | FamilyAddress | FamilyEnum

// OpResult says how the result type of an operator is derived.
type OpResult uint8

const (
	// OpResultCommon is the common type of both operands.
	OpResultCommon OpResult = iota
	// OpResultLeft is the left operand type; the right operand is an unsigned amount.
	OpResultLeft
	// OpResultBool is bool.
	OpResultBool
)

// BinarySpec lists operand families and the result for an operator.
type BinarySpec struct {
	Operands FamilyMask
	Result   OpResult
	Ctx      ConvContext
}

var binarySpecs = map[token.Kind]BinarySpec{
	token.OrOr:     {Operands: FamilyBool, Result: OpResultBool},
	token.AndAnd:   {Operands: FamilyBool, Result: OpResultBool},
	token.EqEq:     {Operands: FamilyBool | familyOrdered | FamilyContract | FamilyFunction, Result: OpResultBool, Ctx: ConvCompare},
	token.BangEq:   {Operands: FamilyBool | familyOrdered | FamilyContract | FamilyFunction, Result: OpResultBool, Ctx: ConvCompare},
	token.Lt:       {Operands: familyOrdered, Result: OpResultBool, Ctx: ConvCompare},
	token.LtEq:     {Operands: familyOrdered, Result: OpResultBool, Ctx: ConvCompare},
	token.Gt:       {Operands: familyOrdered, Result: OpResultBool, Ctx: ConvCompare},
	token.GtEq:     {Operands: familyOrdered, Result: OpResultBool, Ctx: ConvCompare},
	token.Pipe:     {Operands: FamilyInt | FamilyFixedBytes},
	token.Caret:    {Operands: FamilyInt | FamilyFixedBytes},
	token.Amp:      {Operands: FamilyInt | FamilyFixedBytes},
	token.Shl:      {Operands: FamilyInt | FamilyFixedBytes, Result: OpResultLeft},
	token.Shr:      {Operands: FamilyInt | FamilyFixedBytes, Result: OpResultLeft},
	token.Plus:     {Operands: FamilyInt},
	token.Minus:    {Operands: FamilyInt},
	token.Star:     {Operands: FamilyInt},
	token.Slash:    {Operands: FamilyInt},
	token.Percent:  {Operands: FamilyInt},
	token.StarStar: {Operands: FamilyInt, Result: OpResultLeft},
}

// BinarySpecFor returns the operand rules of op.
func BinarySpecFor(op token.Kind) (BinarySpec, bool) {
	spec, ok := binarySpecs[op]
	return spec, ok
}

// Family classifies a type for operator lookup. Literals count as integers.
func (in *Interner) Family(id TypeID) FamilyMask {
	switch in.KindOf(id) {
	case KindBool:
		return FamilyBool
	case KindInt, KindLiteralInt, KindLiteralRational:
		return FamilyInt
	case KindFixedBytes:
		return FamilyFixedBytes
	case KindAddress:
		return FamilyAddress
	case KindEnum:
		return FamilyEnum
	case KindContract:
		return FamilyContract
	case KindFunction:
		return FamilyFunction
	}
	return FamilyNone
}

// BinaryResult computes the type of `l op r` for non-literal combinations.
// Two number literals are folded by the caller instead.
func (in *Interner) BinaryResult(op token.Kind, l, r TypeID) (TypeID, bool) {
	if in.IsError(l) || in.IsError(r) {
		return in.builtins.Error, true
	}
	spec, ok := binarySpecs[op]
	if !ok || in.Family(l)&spec.Operands == 0 || in.Family(r)&spec.Operands == 0 {
		return NoTypeID, false
	}
	if spec.Result == OpResultLeft {
		left := in.Mobile(l)
		if in.IsError(left) || !in.isUnsignedAmount(r) {
			return NoTypeID, false
		}
		return left, true
	}
	if spec.Operands == FamilyInt && (in.KindOf(l) == KindLiteralRational || in.KindOf(r) == KindLiteralRational) {
		return NoTypeID, false
	}
	common, ok := in.CommonType(l, r, spec.Ctx)
	if !ok || in.Family(common)&spec.Operands == 0 {
		return NoTypeID, false
	}
	if spec.Result == OpResultBool {
		return in.builtins.Bool, true
	}
	return common, true
}

func (in *Interner) isUnsignedAmount(id TypeID) bool {
	tt, _ := in.Lookup(id)
	switch tt.Kind {
	case KindInt:
		return !tt.Signed
	case KindLiteralInt:
		v, _ := in.LiteralIntValue(id)
		return v.Sign() >= 0
	}
	return false
}

// UnaryResult computes the type of a prefix or postfix operator applied to t.
func (in *Interner) UnaryResult(op token.Kind, t TypeID) (TypeID, bool) {
	if in.IsError(t) {
		return t, true
	}
	tt, _ := in.Lookup(t)
	switch op {
	case token.Bang:
		return t, tt.Kind == KindBool
	case token.Tilde:
		return t, tt.Kind == KindInt || tt.Kind == KindFixedBytes
	case token.Minus:
		return t, tt.Kind == KindInt && tt.Signed
	case token.PlusPlus, token.MinusMinus:
		return t, tt.Kind == KindInt
	case token.KwDelete:
		return in.builtins.Unit, true
	}
	return NoTypeID, false
}
