package types

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

type literal struct {
	value *big.Rat
	str   string
}

// ErrLiteralTooLarge is returned when a literal or a folded constant exceeds MaxLiteralBits.
var ErrLiteralTooLarge = errors.New("literal too large")

// MaxLiteralBits bounds exact constant values.
const MaxLiteralBits = 4096

// LiteralNumber interns the type of a number literal with the given value.
// Integral values get KindLiteralInt, everything else KindLiteralRational.
func (in *Interner) LiteralNumber(v *big.Rat) TypeID {
	kind, prefix := KindLiteralRational, "r:"
	if v.IsInt() {
		kind, prefix = KindLiteralInt, "i:"
	}
	key := prefix + v.RatString()
	slot, ok := in.litIndex[key]
	if !ok {
		in.lits = append(in.lits, literal{value: new(big.Rat).Set(v)})
		slot = slotOf(len(in.lits)-1, "literal")
		in.litIndex[key] = slot
	}
	return in.Intern(Type{Kind: kind, Payload: slot})
}

// LiteralInt is LiteralNumber for an integer.
func (in *Interner) LiteralInt(v *big.Int) TypeID {
	return in.LiteralNumber(new(big.Rat).SetInt(v))
}

// LiteralString interns the type of a string literal.
func (in *Interner) LiteralString(s string) TypeID {
	key := "s:" + s
	slot, ok := in.litIndex[key]
	if !ok {
		in.lits = append(in.lits, literal{str: s})
		slot = slotOf(len(in.lits)-1, "literal")
		in.litIndex[key] = slot
	}
	return in.Intern(Type{Kind: KindLiteralString, Payload: slot})
}

// LiteralValue returns the exact value of a number literal type.
func (in *Interner) LiteralValue(id TypeID) (*big.Rat, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindLiteralInt && tt.Kind != KindLiteralRational) {
		return nil, false
	}
	return new(big.Rat).Set(in.lits[tt.Payload].value), true
}

// LiteralIntValue returns the value of an integer literal type.
func (in *Interner) LiteralIntValue(id TypeID) (*big.Int, bool) {
	v, ok := in.LiteralValue(id)
	if !ok || !v.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(v.Num()), true
}

// LiteralStringValue returns the bytes of a string literal type.
func (in *Interner) LiteralStringValue(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindLiteralString {
		return "", false
	}
	return in.lits[tt.Payload].str, true
}

var denominations = map[string]int64{
	"wei":     1,
	"gwei":    1e9,
	"szabo":   1e12,
	"finney":  1e15,
	"ether":   1e18,
	"seconds": 1,
	"minutes": 60,
	"hours":   3600,
	"days":    86400,
	"weeks":   604800,
	"years":   31536000,
}

// ParseNumber computes the exact value of a number literal as written without
// separators: decimal `1234`, hex `0xff`, rational `1.5`, `.5`, `2e10`, `1.5e-3`.
// unit is an optional denomination such as "ether".
func ParseNumber(text, unit string) (*big.Rat, error) {
	var v *big.Rat
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		n, ok := new(big.Int).SetString(text[2:], 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex number %q", text)
		}
		v = new(big.Rat).SetInt(n)
	default:
		mant, exp, hasExp := strings.Cut(strings.ToLower(text), "e")
		r, ok := new(big.Rat).SetString(mant)
		if !ok || mant == "" {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		v = r
		if hasExp {
			e, ok := new(big.Int).SetString(exp, 10)
			if !ok {
				return nil, fmt.Errorf("invalid exponent in %q", text)
			}
			if e.CmpAbs(big.NewInt(MaxLiteralBits)) > 0 {
				return nil, ErrLiteralTooLarge
			}
			scale := new(big.Int).Exp(big.NewInt(10), new(big.Int).Abs(e), nil)
			if e.Sign() < 0 {
				v.Quo(v, new(big.Rat).SetInt(scale))
			} else {
				v.Mul(v, new(big.Rat).SetInt(scale))
			}
		}
	}
	if unit != "" {
		mul, ok := denominations[unit]
		if !ok {
			return nil, fmt.Errorf("unknown denomination %q", unit)
		}
		v.Mul(v, new(big.Rat).SetInt64(mul))
	}
	if tooLarge(v) {
		return nil, ErrLiteralTooLarge
	}
	return v, nil
}

func tooLarge(v *big.Rat) bool {
	return v.Num().BitLen() > MaxLiteralBits || v.Denom().BitLen() > MaxLiteralBits
}
