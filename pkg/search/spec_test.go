package search

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		spec        Spec
		wantErr     bool
		description string
	}{
		{Spec{}, true, "empty condition list"},
		{Spec{Conditions: []Condition{{}}}, true, "unknown condition type"},
		{Spec{Conditions: []Condition{{Type: PatternMatch}}}, true, "missing string operand"},
		{Spec{Conditions: []Condition{{Type: PatternMatch, Str: "  "}}}, true, "blank string operand"},
		{Spec{Conditions: []Condition{{Type: Length, Min: 5, Max: 3}}}, true, "min above max"},
		{Spec{Conditions: []Condition{{Type: Length, Min: 3, Max: 3}}}, false, "exact length"},
		{Spec{Conditions: []Condition{{Type: AnagramMatch, Str: "AECR"}}}, false, "anagram"},
	}

	for _, tc := range testCases {
		err := tc.spec.Validate()
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrMalformedSpec, tc.description)
		} else {
			assert.NoError(t, err, tc.description)
		}
	}
}

func TestStageClassificationIsTotal(t *testing.T) {
	for ct := Length; ct <= Suffix; ct++ {
		assert.NotEqual(t, StageNone, ct.Stage(), "condition %v must have a stage", ct)
	}
	assert.Equal(t, StageNone, UnknownCondition.Stage())
}

func TestParseConditionType(t *testing.T) {
	assert.Equal(t, AnagramMatch, ParseConditionType("Anagram Match"))
	assert.Equal(t, AnagramMatch, ParseConditionType("anagram match"))
	assert.Equal(t, UnknownCondition, ParseConditionType("frobnicate"))
}

func TestOptimizeAddsInferredLength(t *testing.T) {
	testCases := []struct {
		cond        Condition
		wantMin     int
		wantMax     int
		description string
	}{
		{Condition{Type: PatternMatch, Str: "C?RE"}, 4, 4, "fixed-shape pattern"},
		{Condition{Type: PatternMatch, Str: "C[AO]RE"}, 4, 4, "group counts one letter"},
		{Condition{Type: AnagramMatch, Str: "AECR?"}, 5, 5, "anagram with blank"},
		{Condition{Type: SubanagramMatch, Str: "AECR"}, 1, 4, "subanagram bounds from above"},
	}

	for _, tc := range testCases {
		spec := Spec{Conditions: []Condition{tc.cond}, Conjunction: true}
		opt := spec.Optimize()
		require.Len(t, opt.Conditions, 2, tc.description)

		added := opt.Conditions[1]
		assert.Equal(t, Length, added.Type, tc.description)
		assert.Equal(t, tc.wantMin, added.Min, tc.description)
		assert.Equal(t, tc.wantMax, added.Max, tc.description)
		assert.True(t, added.Inferred(), tc.description)
	}
}

func TestOptimizeSkipsUnboundedAndNegated(t *testing.T) {
	testCases := []struct {
		cond        Condition
		description string
	}{
		{Condition{Type: PatternMatch, Str: "C*RE"}, "star makes length unbounded"},
		{Condition{Type: AnagramMatch, Str: "AECR*"}, "wild rack"},
		{Condition{Type: PatternMatch, Str: "C?RE", Negated: true}, "negated condition"},
		{Condition{Type: Length, Min: 4, Max: 4}, "non-shape condition"},
	}

	for _, tc := range testCases {
		spec := Spec{Conditions: []Condition{tc.cond}, Conjunction: true}
		opt := spec.Optimize()
		assert.Len(t, opt.Conditions, 1, tc.description)
	}
}

func TestOptimizeIsPureAndIdempotent(t *testing.T) {
	spec := Spec{
		Conditions: []Condition{
			{Type: AnagramMatch, Str: "AECR"},
			{Type: ProbabilityOrder, Min: 1, Max: 100},
		},
		Conjunction: true,
	}
	snapshot := Spec{
		Conditions:  append([]Condition(nil), spec.Conditions...),
		Conjunction: true,
	}

	once := spec.Optimize()
	assert.True(t, reflect.DeepEqual(spec, snapshot), "input spec must not be mutated")

	twice := once.Optimize()
	assert.True(t, reflect.DeepEqual(once, twice), "re-optimizing changes nothing")
}

func TestOptimizeSkipsEquivalentExistingCondition(t *testing.T) {
	spec := Spec{
		Conditions: []Condition{
			{Type: AnagramMatch, Str: "AECR"},
			{Type: Length, Min: 4, Max: 4},
		},
		Conjunction: true,
	}
	opt := spec.Optimize()
	assert.Len(t, opt.Conditions, 2, "caller already pinned the same length")
}

func TestOptimizeLeavesDisjunctionsAlone(t *testing.T) {
	spec := Spec{
		Conditions: []Condition{
			{Type: AnagramMatch, Str: "AECR"},
			{Type: AnagramMatch, Str: "TOB"},
		},
		Conjunction: false,
	}
	opt := spec.Optimize()
	assert.Len(t, opt.Conditions, 2, "adding to a union would widen it")
}
