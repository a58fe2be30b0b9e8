package parser

import (
	"solfront/internal/token"
)

// Binary operator precedence; higher binds tighter. Assignment (1) and the
// conditional operator (2) are handled outside the climbing loop, unary and
// postfix operators (14) in parseUnary.
const (
	precLogicalOr      = 3  // ||
	precLogicalAnd     = 4  // &&
	precEquality       = 5  // == !=
	precComparison     = 6  // < <= > >=
	precBitwiseOr      = 7  // |
	precBitwiseXor     = 8  // ^
	precBitwiseAnd     = 9  // &
	precShift          = 10 // << >>
	precAdditive       = 11 // + -
	precMultiplicative = 12 // * / %
	precExponent       = 13 // **
)

// binaryPrec returns the precedence of a binary operator and whether it is right-associative.
func binaryPrec(k token.Kind) (int, bool) {
	switch k {
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.Shl, token.Shr:
		return precShift, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.StarStar:
		return precExponent, true
	}
	return -1, false
}

// BinaryPrec exposes the binary precedence table to the printer.
func BinaryPrec(k token.Kind) int {
	prec, _ := binaryPrec(k)
	return prec
}

func isPrefixOp(k token.Kind) bool {
	switch k {
	case token.Bang, token.Tilde, token.Minus, token.PlusPlus, token.MinusMinus, token.KwDelete:
		return true
	}
	return false
}
