// Package search models composite search specifications: an ordered
// list of typed conditions combined conjunctively or disjunctively,
// plus the pure rewrite pass that adds cheaper redundant conditions
// ahead of the expensive search stages.
package search

import "strings"

// ConditionType is the closed set of condition kinds. Classification
// into evaluation stages is a fixed policy, not configurable.
type ConditionType int

const (
	UnknownCondition ConditionType = iota
	Length
	PatternMatch
	AnagramMatch
	SubanagramMatch
	ConsistOf
	IncludeLetters
	NumVowels
	NumUniqueLetters
	NumAnagrams
	PointValue
	ProbabilityOrder
	LimitByProbabilityOrder
	InWordList
	BelongToGroup
	Prefix
	Suffix
)

var conditionNames = map[ConditionType]string{
	Length:                  "Length",
	PatternMatch:            "Pattern Match",
	AnagramMatch:            "Anagram Match",
	SubanagramMatch:         "Subanagram Match",
	ConsistOf:               "Consist Of",
	IncludeLetters:          "Include Letters",
	NumVowels:               "Number of Vowels",
	NumUniqueLetters:        "Number of Unique Letters",
	NumAnagrams:             "Number of Anagrams",
	PointValue:              "Point Value",
	ProbabilityOrder:        "Probability Order",
	LimitByProbabilityOrder: "Limit by Probability Order",
	InWordList:              "In Word List",
	BelongToGroup:           "Belongs in Group",
	Prefix:                  "Takes Prefix",
	Suffix:                  "Takes Suffix",
}

func (t ConditionType) String() string {
	if s, ok := conditionNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ParseConditionType resolves a display name back to its type,
// case-insensitively. Unknown names map to UnknownCondition.
func ParseConditionType(name string) ConditionType {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, s := range conditionNames {
		if strings.ToLower(s) == name {
			return t
		}
	}
	return UnknownCondition
}

// Stage is the engine stage that evaluates a condition type.
type Stage int

const (
	StageNone Stage = iota
	StageGraph
	StageStore
	StagePost
)

// Stage returns the fixed stage assignment for a condition type.
func (t ConditionType) Stage() Stage {
	switch t {
	case AnagramMatch, SubanagramMatch, PatternMatch, ConsistOf:
		return StageGraph
	case Length, NumVowels, NumUniqueLetters, PointValue, NumAnagrams,
		IncludeLetters, InWordList, ProbabilityOrder:
		return StageStore
	case Prefix, Suffix, BelongToGroup, LimitByProbabilityOrder:
		return StagePost
	}
	return StageNone
}

// NeedsString reports whether the condition type carries a string
// operand, which must then be non-empty.
func (t ConditionType) NeedsString() bool {
	switch t {
	case PatternMatch, AnagramMatch, SubanagramMatch, ConsistOf,
		IncludeLetters, InWordList, BelongToGroup, Prefix, Suffix:
		return true
	}
	return false
}

// Numeric reports whether the condition type carries min/max bounds.
func (t ConditionType) Numeric() bool {
	switch t {
	case Length, NumVowels, NumUniqueLetters, NumAnagrams, PointValue,
		ProbabilityOrder, LimitByProbabilityOrder, ConsistOf:
		return true
	}
	return false
}

// Condition is one typed search condition. Min == Max means exact
// equality, never a degenerate range. Lax switches probability-order
// bounds to the tie-inclusive min/max rank columns; Legacy switches
// the probability-window tie-break to plain alphabetical order.
type Condition struct {
	Type    ConditionType
	Min     int
	Max     int
	Str     string
	Negated bool
	Lax     bool
	Legacy  bool

	// inferred marks conditions added by Spec.Optimize rather than the
	// caller; the engine uses it to skip a store stage that would add
	// no selectivity.
	inferred bool
}

// Inferred reports whether the optimizer added this condition.
func (c Condition) Inferred() bool { return c.inferred }

// sameAs compares caller-visible fields, ignoring the inferred marker.
func (c Condition) sameAs(o Condition) bool {
	return c.Type == o.Type && c.Min == o.Min && c.Max == o.Max &&
		c.Str == o.Str && c.Negated == o.Negated && c.Lax == o.Lax &&
		c.Legacy == o.Legacy
}
