package types

import (
	"errors"
	"math/big"

	"solfront/internal/token"
)

// PanicCode is the code carried by a Panic-class revert.
type PanicCode uint8

const (
	PanicNone     PanicCode = 0x00
	PanicAssert   PanicCode = 0x01
	PanicOverflow PanicCode = 0x11
	PanicDivZero  PanicCode = 0x12
	PanicEnum     PanicCode = 0x21
	PanicPopEmpty PanicCode = 0x31
	PanicIndex    PanicCode = 0x32
)

func (c PanicCode) String() string {
	switch c {
	case PanicAssert:
		return "assertion failed"
	case PanicOverflow:
		return "arithmetic overflow or underflow"
	case PanicDivZero:
		return "division or modulo by zero"
	case PanicEnum:
		return "enum conversion out of range"
	case PanicPopEmpty:
		return "pop on empty array"
	case PanicIndex:
		return "array index out of bounds"
	}
	return "no panic"
}

// ErrNotConstant is returned when an operator cannot be folded exactly.
var ErrNotConstant = errors.New("operation cannot be evaluated at compile time")

// IntRange returns the inclusive bounds of intN or uintN.
func IntRange(bits uint16, signed bool) (lo, hi *big.Int) {
	one := big.NewInt(1)
	if signed {
		hi = new(big.Int).Lsh(one, uint(bits-1))
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, one)
		return lo, hi
	}
	hi = new(big.Int).Lsh(one, uint(bits))
	hi.Sub(hi, one)
	return new(big.Int), hi
}

// FitsInt reports whether v is representable in intN or uintN.
func FitsInt(v *big.Int, bits uint16, signed bool) bool {
	lo, hi := IntRange(bits, signed)
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// WrapInt truncates v to the width with two's complement semantics.
func WrapInt(v *big.Int, bits uint16, signed bool) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	out := new(big.Int).Mod(v, mod) // Mod is Euclidean, result is non-negative
	if signed {
		half := new(big.Int).Rsh(mod, 1)
		if out.Cmp(half) >= 0 {
			out.Sub(out, mod)
		}
	}
	return out
}

// FoldLiteral evaluates a binary operator over exact literal values. Division
// is exact (rational); shifts, bitwise operators and modulo need integers.
func FoldLiteral(op token.Kind, a, b *big.Rat) (*big.Rat, PanicCode, error) {
	out := new(big.Rat)
	switch op {
	case token.Plus:
		out.Add(a, b)
	case token.Minus:
		out.Sub(a, b)
	case token.Star:
		out.Mul(a, b)
	case token.Slash:
		if b.Sign() == 0 {
			return nil, PanicDivZero, nil
		}
		out.Quo(a, b)
	case token.Percent:
		if !a.IsInt() || !b.IsInt() {
			return nil, PanicNone, ErrNotConstant
		}
		if b.Sign() == 0 {
			return nil, PanicDivZero, nil
		}
		out.SetInt(new(big.Int).Rem(a.Num(), b.Num()))
	case token.StarStar:
		if !b.IsInt() || b.Sign() < 0 {
			return nil, PanicNone, ErrNotConstant
		}
		e := b.Num()
		if a.Num().CmpAbs(big.NewInt(1)) > 0 && e.Cmp(big.NewInt(MaxLiteralBits)) > 0 {
			return nil, PanicNone, ErrLiteralTooLarge
		}
		num := new(big.Int).Exp(a.Num(), e, nil)
		den := new(big.Int).Exp(a.Denom(), e, nil)
		out.SetFrac(num, den)
	case token.Shl, token.Shr, token.Amp, token.Pipe, token.Caret:
		if !a.IsInt() || !b.IsInt() {
			return nil, PanicNone, ErrNotConstant
		}
		x, y := a.Num(), b.Num()
		r := new(big.Int)
		switch op {
		case token.Shl, token.Shr:
			if y.Sign() < 0 || y.Cmp(big.NewInt(MaxLiteralBits)) > 0 {
				return nil, PanicNone, ErrNotConstant
			}
			if op == token.Shl {
				r.Lsh(x, uint(y.Uint64()))
			} else {
				r.Rsh(x, uint(y.Uint64()))
			}
		case token.Amp:
			r.And(x, y)
		case token.Pipe:
			r.Or(x, y)
		case token.Caret:
			r.Xor(x, y)
		}
		out.SetInt(r)
	default:
		return nil, PanicNone, ErrNotConstant
	}
	if tooLarge(out) {
		return nil, PanicNone, ErrLiteralTooLarge
	}
	return out, PanicNone, nil
}

// EvalInt evaluates a binary operator on typed integers of the given width.
// When checked is set an out-of-range result yields PanicOverflow; otherwise the
// result wraps. Division and modulo by zero yield PanicDivZero in both modes.
func EvalInt(op token.Kind, a, b *big.Int, bits uint16, signed, checked bool) (*big.Int, PanicCode) {
	r := new(big.Int)
	switch op {
	case token.Plus:
		r.Add(a, b)
	case token.Minus:
		r.Sub(a, b)
	case token.Star:
		r.Mul(a, b)
	case token.Slash, token.Percent:
		if b.Sign() == 0 {
			return nil, PanicDivZero
		}
		if op == token.Slash {
			r.Quo(a, b) // truncates toward zero
		} else {
			r.Rem(a, b) // sign follows the dividend
		}
	case token.StarStar:
		if b.Sign() < 0 {
			return nil, PanicNone
		}
		if a.CmpAbs(big.NewInt(1)) > 0 && b.Cmp(big.NewInt(int64(bits))) > 0 {
			// the result exceeds the width; only its wrapped value matters
			if checked {
				return nil, PanicOverflow
			}
			mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
			r.Exp(a, b, mod)
			return WrapInt(r, bits, signed), PanicNone
		}
		r.Exp(a, b, nil)
	case token.Shl:
		if b.Cmp(big.NewInt(int64(bits))) >= 0 {
			return new(big.Int), PanicNone
		}
		// shifts never revert
		return WrapInt(r.Lsh(a, uint(b.Uint64())), bits, signed), PanicNone
	case token.Shr:
		if b.Cmp(big.NewInt(int64(bits))) >= 0 {
			if a.Sign() < 0 {
				return big.NewInt(-1), PanicNone
			}
			return new(big.Int), PanicNone
		}
		return r.Rsh(a, uint(b.Uint64())), PanicNone
	case token.Amp:
		return WrapInt(r.And(a, b), bits, signed), PanicNone
	case token.Pipe:
		return WrapInt(r.Or(a, b), bits, signed), PanicNone
	case token.Caret:
		return WrapInt(r.Xor(a, b), bits, signed), PanicNone
	default:
		return nil, PanicNone
	}
	if FitsInt(r, bits, signed) {
		return r, PanicNone
	}
	if checked {
		return nil, PanicOverflow
	}
	return WrapInt(r, bits, signed), PanicNone
}

// EvalUnary evaluates -, ~ and the increment operators on typed integers.
func EvalUnary(op token.Kind, a *big.Int, bits uint16, signed, checked bool) (*big.Int, PanicCode) {
	r := new(big.Int)
	switch op {
	case token.Minus:
		r.Neg(a)
	case token.Tilde:
		return WrapInt(r.Not(a), bits, signed), PanicNone
	case token.PlusPlus:
		r.Add(a, big.NewInt(1))
	case token.MinusMinus:
		r.Sub(a, big.NewInt(1))
	default:
		return nil, PanicNone
	}
	if FitsInt(r, bits, signed) {
		return r, PanicNone
	}
	if checked {
		return nil, PanicOverflow
	}
	return WrapInt(r, bits, signed), PanicNone
}

// CompoundOp maps `+=` and friends to their binary operator.
func CompoundOp(op token.Kind) (token.Kind, bool) {
	switch op {
	case token.PlusAssign:
		return token.Plus, true
	case token.MinusAssign:
		return token.Minus, true
	case token.StarAssign:
		return token.Star, true
	case token.SlashAssign:
		return token.Slash, true
	case token.PercentAssign:
		return token.Percent, true
	case token.AmpAssign:
		return token.Amp, true
	case token.PipeAssign:
		return token.Pipe, true
	case token.CaretAssign:
		return token.Caret, true
	case token.ShlAssign:
		return token.Shl, true
	case token.ShrAssign:
		return token.Shr, true
	}
	return 0, false
}
