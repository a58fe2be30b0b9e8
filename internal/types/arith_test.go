package types

import (
	"math/big"
	"testing"

	"solfront/internal/token"
)

func TestEvalIntCheckedAndWrapping(t *testing.T) {
	max8 := big.NewInt(255)
	if _, p := EvalUnary(token.PlusPlus, max8, 8, false, true); p != PanicOverflow {
		t.Fatalf("checked 255++ should overflow, got %v", p)
	}
	v, p := EvalUnary(token.PlusPlus, max8, 8, false, false)
	if p != PanicNone || v.Sign() != 0 {
		t.Fatalf("unchecked 255++ = %v, %v; want 0", v, p)
	}
	if v, _ := EvalInt(token.Minus, big.NewInt(0), big.NewInt(1), 8, false, false); v.Int64() != 255 {
		t.Fatalf("unchecked 0-1 = %v", v)
	}
	if _, p := EvalInt(token.Slash, big.NewInt(1), big.NewInt(0), 256, false, false); p != PanicDivZero {
		t.Fatalf("division by zero in unchecked code must still panic")
	}
	if v, _ := EvalInt(token.Slash, big.NewInt(-7), big.NewInt(2), 256, true, true); v.Int64() != -3 {
		t.Fatalf("-7/2 = %v; want -3", v)
	}
	if v, _ := EvalInt(token.Percent, big.NewInt(-7), big.NewInt(2), 256, true, true); v.Int64() != -1 {
		t.Fatalf("-7%%2 = %v; want -1", v)
	}
	if _, p := EvalUnary(token.Minus, big.NewInt(-128), 8, true, true); p != PanicOverflow {
		t.Fatalf("-(-128) as int8 should overflow")
	}
	if v, p := EvalInt(token.Shl, big.NewInt(1), big.NewInt(8), 8, false, true); p != PanicNone || v.Sign() != 0 {
		t.Fatalf("shifts wrap even when checked: %v %v", v, p)
	}
	if _, p := EvalInt(token.StarStar, big.NewInt(2), big.NewInt(300), 256, false, true); p != PanicOverflow {
		t.Fatalf("2**300 overflows uint256")
	}
}

func TestWrapInt(t *testing.T) {
	tests := []struct {
		in     int64
		bits   uint16
		signed bool
		want   int64
	}{
		{256, 8, false, 0},
		{-1, 8, false, 255},
		{128, 8, true, -128},
		{-129, 8, true, 127},
	}
	for _, tt := range tests {
		if got := WrapInt(big.NewInt(tt.in), tt.bits, tt.signed); got.Int64() != tt.want {
			t.Errorf("WrapInt(%d, %d, %v) = %v; want %d", tt.in, tt.bits, tt.signed, got, tt.want)
		}
	}
}

func TestFoldLiteralIsExact(t *testing.T) {
	one, half := big.NewRat(1, 1), big.NewRat(1, 2)
	v, _, err := FoldLiteral(token.Slash, one, big.NewRat(2, 1))
	if err != nil || v.Cmp(half) != 0 {
		t.Fatalf("1/2 = %v, %v", v, err)
	}
	if _, p, _ := FoldLiteral(token.Percent, one, new(big.Rat)); p != PanicDivZero {
		t.Fatalf("1 %% 0 should be a division by zero")
	}
	if _, _, err := FoldLiteral(token.StarStar, big.NewRat(2, 1), big.NewRat(100000, 1)); err == nil {
		t.Fatalf("2**100000 should be rejected as too large")
	}
}
