package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSpec is a caller contract violation: an empty condition
// list, inconsistent bounds, or a missing string operand. It is
// surfaced synchronously and never produces partial results.
var ErrMalformedSpec = errors.New("malformed search specification")

// Spec is an ordered list of conditions with a single combination mode
// applied uniformly: every condition must hold (conjunction) or any
// may (disjunction). An empty condition list matches nothing and is a
// caller error.
type Spec struct {
	Conditions  []Condition
	Conjunction bool
}

// Validate checks the caller contract.
func (s Spec) Validate() error {
	if len(s.Conditions) == 0 {
		return fmt.Errorf("%w: no conditions", ErrMalformedSpec)
	}
	for i, c := range s.Conditions {
		if c.Type == UnknownCondition || c.Type.Stage() == StageNone {
			return fmt.Errorf("%w: condition %d has unknown type", ErrMalformedSpec, i)
		}
		if c.Type.NeedsString() && strings.TrimSpace(c.Str) == "" {
			return fmt.Errorf("%w: condition %d (%s) requires an operand", ErrMalformedSpec, i, c.Type)
		}
		if c.Type.Numeric() && c.Min > c.Max {
			return fmt.Errorf("%w: condition %d (%s) has min %d > max %d", ErrMalformedSpec, i, c.Type, c.Min, c.Max)
		}
	}
	return nil
}

// Optimize returns a spec with redundant-but-cheaper conditions added
// ahead of the expensive stages: a fixed-shape pattern or anagram
// operand pins an exact Length, a sub-anagram operand bounds it from
// above. The rewrite is pure, only ever adds, and is idempotent:
// re-optimizing an optimized spec changes nothing. Disjunctive specs
// are returned untouched, since an added condition would widen a
// union.
func (s Spec) Optimize() Spec {
	out := Spec{
		Conjunction: s.Conjunction,
		Conditions:  append([]Condition(nil), s.Conditions...),
	}
	if !s.Conjunction && len(s.Conditions) > 1 {
		return out
	}

	for _, c := range s.Conditions {
		var add Condition
		switch c.Type {
		case PatternMatch, AnagramMatch:
			n, fixed := operandLength(c.Str)
			if !fixed || c.Negated {
				continue
			}
			add = Condition{Type: Length, Min: n, Max: n, inferred: true}
		case SubanagramMatch:
			n, fixed := operandLength(c.Str)
			if !fixed || c.Negated {
				continue
			}
			add = Condition{Type: Length, Min: 1, Max: n, inferred: true}
		default:
			continue
		}
		if add.Min < 1 {
			continue
		}
		if !out.contains(add) {
			out.Conditions = append(out.Conditions, add)
		}
	}
	return out
}

func (s Spec) contains(c Condition) bool {
	for _, have := range s.Conditions {
		if have.sameAs(c) {
			return true
		}
	}
	return false
}

// operandLength counts the letters a pattern or rack operand consumes:
// literals, '?' blanks and '[...]' groups count one each; a '*' makes
// the length unbounded.
func operandLength(operand string) (int, bool) {
	n := 0
	inGroup := false
	for _, r := range strings.ToUpper(operand) {
		switch {
		case inGroup:
			if r == ']' {
				inGroup = false
				n++
			}
		case r == '*':
			return 0, false
		case r == '[':
			inGroup = true
		default:
			n++
		}
	}
	if inGroup {
		return 0, false
	}
	return n, true
}
