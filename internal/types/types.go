// Package types holds interned type descriptors, the conversion rules between
// them, overload filtering and exact constant arithmetic.
package types

import (
	"fmt"

	"solfront/internal/ast"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindError marks an expression whose type could not be computed.
	KindError
	KindBool
	KindInt
	KindFixedBytes
	KindAddress
	KindBytes
	KindString
	KindArray
	KindMapping
	KindStruct
	KindEnum
	KindContract
	KindFunction
	KindUDVT
	KindLiteralInt
	KindLiteralRational
	KindLiteralString
	KindTuple
	// KindMagic covers msg, block, tx, abi, type(X), super and import namespaces.
	KindMagic
	// KindTypeType is the type of an expression naming a type, such as `uint8` in `uint8(x)`.
	KindTypeType
	KindModifier
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFixedBytes:
		return "fixed-bytes"
	case KindAddress:
		return "address"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMapping:
		return "mapping"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindContract:
		return "contract"
	case KindFunction:
		return "function"
	case KindUDVT:
		return "udvt"
	case KindLiteralInt:
		return "int-literal"
	case KindLiteralRational:
		return "rational-literal"
	case KindLiteralString:
		return "string-literal"
	case KindTuple:
		return "tuple"
	case KindMagic:
		return "magic"
	case KindTypeType:
		return "type"
	case KindModifier:
		return "modifier"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ArrayDynamic marks T[] in Type.Len.
const ArrayDynamic = ^uint32(0)

// Type is a compact descriptor for any supported type. Descriptors are
// compared by value; nominal kinds carry a unique Payload slot so two
// declarations never compare equal.
type Type struct {
	Kind     Kind
	Bits     uint16 // integer width, fixed-bytes size
	Signed   bool
	Payable  bool
	Elem     TypeID // array element, mapping value, type-type target
	Key      TypeID // mapping key
	Len      uint32 // array length, ArrayDynamic for T[]
	Location ast.DataLocation
	Payload  uint32 // slot in a side table, or a MagicKind
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes intN or uintN.
func MakeInt(bits uint16, signed bool) Type {
	return Type{Kind: KindInt, Bits: bits, Signed: signed}
}

// MakeFixedBytes describes bytesN.
func MakeFixedBytes(n uint16) Type {
	return Type{Kind: KindFixedBytes, Bits: n}
}

// MakeAddress describes address or address payable.
func MakeAddress(payable bool) Type {
	return Type{Kind: KindAddress, Payable: payable}
}

// MakeArray describes T[n] or, with ArrayDynamic, T[].
func MakeArray(elem TypeID, length uint32, loc ast.DataLocation) Type {
	return Type{Kind: KindArray, Elem: elem, Len: length, Location: loc}
}

// MakeMapping describes mapping(K => V). Mappings only live in storage.
func MakeMapping(key, value TypeID) Type {
	return Type{Kind: KindMapping, Key: key, Elem: value, Location: ast.LocStorage}
}

// MakeTypeType describes the type of an expression that names target.
func MakeTypeType(target TypeID) Type {
	return Type{Kind: KindTypeType, Elem: target}
}
