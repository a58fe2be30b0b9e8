package token

import (
	"strconv"
	"strings"
)

// IsElementaryTypeName reports whether an identifier names a built-in type:
// bool, address, string, bytes, byte, int/uint with optional bit width,
// bytesN and fixed-point names.
func IsElementaryTypeName(s string) bool {
	switch s {
	case "bool", "address", "string", "bytes", "byte", "int", "uint", "fixed", "ufixed":
		return true
	}
	switch {
	case strings.HasPrefix(s, "uint"):
		return validBits(s[4:])
	case strings.HasPrefix(s, "int"):
		return validBits(s[3:])
	case strings.HasPrefix(s, "bytes"):
		n, err := strconv.Atoi(s[5:])
		return err == nil && n >= 1 && n <= 32 && s[5] != '0'
	case strings.HasPrefix(s, "ufixed"):
		return validFixed(s[6:])
	case strings.HasPrefix(s, "fixed"):
		return validFixed(s[5:])
	}
	return false
}

func validBits(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 8 && n <= 256 && n%8 == 0
}

func validFixed(s string) bool {
	m, n, ok := strings.Cut(s, "x")
	if !ok || !validBits(m) {
		return false
	}
	d, err := strconv.Atoi(n)
	return err == nil && d <= 80 && (n == "0" || n[0] != '0')
}

var denominations = map[string]struct{}{
	"wei": {}, "gwei": {}, "ether": {}, "finney": {}, "szabo": {},
	"seconds": {}, "minutes": {}, "hours": {}, "days": {}, "weeks": {}, "years": {},
}

// IsDenomination reports whether s is a number unit suffix such as `ether` or `days`.
func IsDenomination(s string) bool {
	_, ok := denominations[s]
	return ok
}
