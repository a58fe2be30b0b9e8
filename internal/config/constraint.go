package config

import (
	"fmt"
	"strings"
)

// Constraint is a parsed `pragma solidity` version requirement: a disjunction
// (`||`) of conjunctions of comparators.
type Constraint struct {
	Text string
	alts [][]comparator
}

type comparator struct {
	lo, hi         Version
	loIncl, hiIncl bool
	hasLo, hasHi   bool
}

func (c comparator) allows(v Version) bool {
	if c.hasLo {
		if d := v.Compare(c.lo); d < 0 || (d == 0 && !c.loIncl) {
			return false
		}
	}
	if c.hasHi {
		if d := v.Compare(c.hi); d > 0 || (d == 0 && !c.hiIncl) {
			return false
		}
	}
	return true
}

// ParseConstraint parses text such as "^0.8.0", ">=0.6.0 <0.9.0", "0.8.19 || ^0.7.0".
func ParseConstraint(text string) (Constraint, error) {
	out := Constraint{Text: strings.TrimSpace(text)}
	for _, alt := range strings.Split(text, "||") {
		fields := strings.Fields(alt)
		if len(fields) == 0 {
			return Constraint{}, fmt.Errorf("%w: empty range in %q", ErrBadVersion, text)
		}
		var conj []comparator
		for i := 0; i < len(fields); i++ {
			f := fields[i]
			// ">= 0.8.0" with a detached operator
			if isOperator(f) && i+1 < len(fields) {
				f += fields[i+1]
				i++
			}
			c, err := parseComparator(f)
			if err != nil {
				return Constraint{}, err
			}
			conj = append(conj, c)
		}
		out.alts = append(out.alts, conj)
	}
	return out, nil
}

func isOperator(s string) bool {
	switch s {
	case "^", "~", ">", ">=", "<", "<=", "=":
		return true
	}
	return false
}

func parseComparator(f string) (comparator, error) {
	op := ""
	for _, candidate := range []string{">=", "<=", "^", "~", ">", "<", "="} {
		if strings.HasPrefix(f, candidate) {
			op = candidate
			break
		}
	}
	v, parts, err := parseVersionParts(strings.TrimPrefix(f, op))
	if err != nil {
		return comparator{}, err
	}
	switch op {
	case ">=":
		return comparator{lo: v, loIncl: true, hasLo: true}, nil
	case ">":
		return comparator{lo: v, hasLo: true}, nil
	case "<=":
		return comparator{hi: v, hiIncl: true, hasHi: true}, nil
	case "<":
		return comparator{hi: v, hasHi: true}, nil
	case "^":
		hi := V(v.Major+1, 0, 0)
		if v.Major == 0 {
			hi = V(0, v.Minor+1, 0)
		}
		return comparator{lo: v, loIncl: true, hasLo: true, hi: hi, hasHi: true}, nil
	case "~":
		hi := V(v.Major, v.Minor+1, 0)
		if parts == 1 {
			hi = V(v.Major+1, 0, 0)
		}
		return comparator{lo: v, loIncl: true, hasLo: true, hi: hi, hasHi: true}, nil
	default:
		// bare or "=" version; a partial version matches every patch below it
		switch parts {
		case 1:
			return comparator{lo: v, loIncl: true, hasLo: true, hi: V(v.Major+1, 0, 0), hasHi: true}, nil
		case 2:
			return comparator{lo: v, loIncl: true, hasLo: true, hi: V(v.Major, v.Minor+1, 0), hasHi: true}, nil
		}
		return comparator{lo: v, hi: v, loIncl: true, hiIncl: true, hasLo: true, hasHi: true}, nil
	}
}

// Allows reports whether v satisfies the constraint.
func (c Constraint) Allows(v Version) bool {
	for _, conj := range c.alts {
		ok := true
		for _, cmp := range conj {
			if !cmp.allows(v) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (c Constraint) String() string {
	return c.Text
}
