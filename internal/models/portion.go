package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Portion is a non-negative fraction of a field, e.g. 1/2 or 3/8. The zero
// value means zero capacity.
type Portion struct {
	Num int
	Den int
}

// ParsePortion parses "n/d" or a bare integer into a normalized Portion.
func ParsePortion(s string) (Portion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Portion{}, fmt.Errorf("empty portion")
	}
	num, den := 0, 1
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(s[:idx]))
		if err != nil {
			return Portion{}, fmt.Errorf("parse portion numerator %q: %w", s, err)
		}
		d, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
		if err != nil {
			return Portion{}, fmt.Errorf("parse portion denominator %q: %w", s, err)
		}
		num, den = n, d
	} else {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Portion{}, fmt.Errorf("parse portion %q: %w", s, err)
		}
		num = n
	}
	if den <= 0 || num < 0 {
		return Portion{}, fmt.Errorf("portion %q out of range", s)
	}
	return Portion{Num: num, Den: den}.normalize(), nil
}

// MustPortion parses a portion literal and panics on failure. For constants
// and tests only.
func MustPortion(s string) Portion {
	p, err := ParsePortion(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Portion) normalize() Portion {
	if p.Num == 0 {
		return Portion{Num: 0, Den: 1}
	}
	g := gcd(p.Num, p.Den)
	return Portion{Num: p.Num / g, Den: p.Den / g}
}

// Sub returns p - q, floored at zero.
func (p Portion) Sub(q Portion) Portion {
	num := p.Num*q.Den - q.Num*p.Den
	if num <= 0 {
		return Portion{Num: 0, Den: 1}
	}
	return Portion{Num: num, Den: p.Den * q.Den}.normalize()
}

// Cmp compares two portions: -1 if p < q, 0 if equal, 1 if p > q.
func (p Portion) Cmp(q Portion) int {
	left := p.Num * q.Den
	right := q.Num * p.Den
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

// IsPositive reports whether the portion has any capacity left.
func (p Portion) IsPositive() bool {
	return p.Num > 0
}

// String renders the canonical "n/d" form.
func (p Portion) String() string {
	den := p.Den
	if den == 0 {
		den = 1
	}
	return fmt.Sprintf("%d/%d", p.Num, den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
