package types

import (
	"fmt"
	"strconv"
	"strings"

	"solfront/internal/ast"
)

// String renders a type the way it is written in source, with its data location.
func (in *Interner) String(id TypeID) string {
	var sb strings.Builder
	in.write(&sb, id, true)
	return sb.String()
}

func (in *Interner) write(sb *strings.Builder, id TypeID, withLoc bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindError:
		sb.WriteString("<error>")
	case KindBool:
		sb.WriteString("bool")
	case KindInt:
		if !tt.Signed {
			sb.WriteByte('u')
		}
		sb.WriteString("int")
		sb.WriteString(strconv.Itoa(int(tt.Bits)))
	case KindFixedBytes:
		sb.WriteString("bytes")
		sb.WriteString(strconv.Itoa(int(tt.Bits)))
	case KindAddress:
		sb.WriteString("address")
		if tt.Payable {
			sb.WriteString(" payable")
		}
	case KindBytes:
		sb.WriteString("bytes")
	case KindString:
		sb.WriteString("string")
	case KindArray:
		in.write(sb, tt.Elem, false)
		if tt.Len == ArrayDynamic {
			sb.WriteString("[]")
		} else {
			fmt.Fprintf(sb, "[%d]", tt.Len)
		}
	case KindMapping:
		sb.WriteString("mapping(")
		in.write(sb, tt.Key, false)
		sb.WriteString(" => ")
		in.write(sb, tt.Elem, false)
		sb.WriteByte(')')
	case KindStruct, KindEnum, KindContract, KindUDVT:
		info := in.nominal(id)
		switch {
		case tt.Kind == KindContract && info.ContractKind != ast.ContractPlain:
			sb.WriteString(info.ContractKind.String())
		default:
			sb.WriteString(tt.Kind.String())
		}
		sb.WriteByte(' ')
		sb.WriteString(info.Name)
	case KindFunction:
		in.writeFn(sb, id)
	case KindLiteralInt, KindLiteralRational:
		v, _ := in.LiteralValue(id)
		if tt.Kind == KindLiteralInt {
			sb.WriteString("int_const ")
		} else {
			sb.WriteString("rational_const ")
		}
		sb.WriteString(v.RatString())
	case KindLiteralString:
		s, _ := in.LiteralStringValue(id)
		fmt.Fprintf(sb, "literal_string %q", s)
	case KindTuple:
		info, _ := in.TupleInfo(id)
		sb.WriteString("tuple(")
		for i, e := range info.Elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			if e != NoTypeID {
				in.write(sb, e, true)
			}
		}
		sb.WriteByte(')')
	case KindMagic:
		sb.WriteString(MagicKind(tt.Payload).String())
	case KindTypeType:
		sb.WriteString("type(")
		in.write(sb, tt.Elem, false)
		sb.WriteByte(')')
	case KindModifier:
		sb.WriteString("modifier")
	default:
		sb.WriteString(tt.Kind.String())
	}
	if withLoc && tt.Kind != KindMapping && tt.Location != ast.LocNone {
		sb.WriteByte(' ')
		sb.WriteString(tt.Location.String())
	}
}

func (in *Interner) writeFn(sb *strings.Builder, id TypeID) {
	info, _ := in.FnInfo(id)
	switch info.Kind {
	case FnEvent:
		sb.WriteString("event")
	case FnError:
		sb.WriteString("error")
	default:
		sb.WriteString("function")
	}
	sb.WriteString(" (")
	for i, p := range info.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		in.write(sb, p, true)
	}
	sb.WriteByte(')')
	if info.Variadic {
		sb.WriteString(" ...")
	}
	if info.Kind == FnExternal {
		sb.WriteString(" external")
	}
	if info.Mutability != ast.MutNonPayable {
		sb.WriteByte(' ')
		sb.WriteString(info.Mutability.String())
	}
	if len(info.Returns) > 0 {
		sb.WriteString(" returns (")
		for i, r := range info.Returns {
			if i > 0 {
				sb.WriteByte(',')
			}
			in.write(sb, r, true)
		}
		sb.WriteByte(')')
	}
}

// Canonical renders the ABI spelling of a type: no data locations, structs
// expanded to tuples, enums as uint8, contracts as address and UDVTs as their
// underlying type. ok is false for types that have no ABI form.
func (in *Interner) Canonical(id TypeID) (string, bool) {
	var sb strings.Builder
	ok := in.canonical(&sb, id, 0)
	return sb.String(), ok
}

func (in *Interner) canonical(sb *strings.Builder, id TypeID, depth int) bool {
	if depth > 32 {
		return false
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBool, KindInt, KindFixedBytes, KindBytes, KindString:
		in.write(sb, id, false)
	case KindAddress, KindContract:
		sb.WriteString("address")
	case KindEnum:
		sb.WriteString("uint8")
	case KindUDVT:
		return in.canonical(sb, in.Underlying(id), depth+1)
	case KindFunction:
		info, _ := in.FnInfo(id)
		if info.Kind != FnExternal {
			return false
		}
		sb.WriteString("function")
	case KindArray:
		if !in.canonical(sb, tt.Elem, depth+1) {
			return false
		}
		if tt.Len == ArrayDynamic {
			sb.WriteString("[]")
		} else {
			fmt.Fprintf(sb, "[%d]", tt.Len)
		}
	case KindStruct:
		info := in.nominal(id)
		sb.WriteByte('(')
		for i, f := range info.Fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			if !in.canonical(sb, f.Type, depth+1) {
				return false
			}
		}
		sb.WriteByte(')')
	default:
		return false
	}
	return true
}
