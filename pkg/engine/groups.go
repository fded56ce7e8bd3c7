package engine

import (
	"strings"

	"github.com/lexvane/lexvane/pkg/letters"
)

// wordGroup identifies a named membership set usable as a search
// condition operand.
type wordGroup int

const (
	groupUnknown wordGroup = iota
	groupHookWords
	groupFrontHooks
	groupBackHooks
	groupTypeOneSevens
	groupTypeTwoSevens
	groupTypeThreeSevens
	groupTypeOneEights
	groupTypeTwoEights
	groupTypeThreeEights
	groupEightsFromSevenStems
)

// typeTwoLetters is the letter pool that type II racks draw from.
const typeTwoLetters = "AAADEEEEGIIILNNOORRSSTTU"

func parseGroup(name string) wordGroup {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hook words":
		return groupHookWords
	case "front hooks":
		return groupFrontHooks
	case "back hooks":
		return groupBackHooks
	case "type i sevens":
		return groupTypeOneSevens
	case "type ii sevens":
		return groupTypeTwoSevens
	case "type iii sevens":
		return groupTypeThreeSevens
	case "type i eights":
		return groupTypeOneEights
	case "type ii eights":
		return groupTypeTwoEights
	case "type iii eights":
		return groupTypeThreeEights
	case "eights from seven-letter stems":
		return groupEightsFromSevenStems
	}
	return groupUnknown
}

// inGroup reports whether a word belongs to a membership set. Hook
// groups test single-letter extensions against the word graph. The
// type I/II/III groups classify sevens and eights by combination
// probability thresholds and by whether the rack is drawable from the
// type II letter pool.
func (e *Engine) inGroup(word string, group wordGroup) bool {
	w := letters.Normalize(word)

	switch group {
	case groupHookWords:
		return e.isFrontHook(w) || e.isBackHook(w)
	case groupFrontHooks:
		return e.isFrontHook(w)
	case groupBackHooks:
		return e.isBackHook(w)
	}

	e.mu.RLock()
	bag := e.bag
	e.mu.RUnlock()
	if bag == nil {
		return false
	}

	combos := bag.Combinations(w)
	switch group {
	case groupTypeOneSevens:
		if len(w) != 7 {
			return false
		}
		return combos >= bag.Combinations("HUNTERS")
	case groupTypeTwoSevens:
		if len(w) != 7 {
			return false
		}
		return combos < bag.Combinations("HUNTERS") &&
			drawableFrom(w, typeTwoLetters)
	case groupTypeThreeSevens:
		if len(w) != 7 {
			return false
		}
		return combos < bag.Combinations("HUNTERS") &&
			!drawableFrom(w, typeTwoLetters)
	case groupTypeOneEights:
		if len(w) != 8 {
			return false
		}
		return combos >= bag.Combinations("NOTIFIED")
	case groupTypeTwoEights:
		if len(w) != 8 {
			return false
		}
		return combos < bag.Combinations("NOTIFIED") &&
			drawableFrom(w, typeTwoLetters)
	case groupTypeThreeEights:
		if len(w) != 8 {
			return false
		}
		return combos < bag.Combinations("NOTIFIED") &&
			!drawableFrom(w, typeTwoLetters)
	case groupEightsFromSevenStems:
		if len(w) != 8 {
			return false
		}
		return e.hasStemWithin(w, 7)
	}
	return false
}

func (e *Engine) isFrontHook(word string) bool {
	if len(word) < 2 {
		return false
	}
	return e.IsAcceptable(word[1:])
}

func (e *Engine) isBackHook(word string) bool {
	if len(word) < 2 {
		return false
	}
	return e.IsAcceptable(word[:len(word)-1])
}

// drawableFrom reports whether the word's letters are a submultiset of
// the given letter pool.
func drawableFrom(word, pool string) bool {
	var supply [26]int
	for i := 0; i < len(pool); i++ {
		if c := pool[i]; c >= 'A' && c <= 'Z' {
			supply[c-'A']++
		}
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'A' || c > 'Z' {
			return false
		}
		supply[c-'A']--
		if supply[c-'A'] < 0 {
			return false
		}
	}
	return true
}

// hasStemWithin reports whether removing one letter from the word
// yields the alphagram of an imported stem of the given length.
func (e *Engine) hasStemWithin(word string, stemLength int) bool {
	if len(word) != stemLength+1 {
		return false
	}
	e.mu.RLock()
	alphagrams := e.stemAlphagrams[stemLength]
	e.mu.RUnlock()
	if len(alphagrams) == 0 {
		return false
	}
	for i := 0; i < len(word); i++ {
		reduced := letters.Alphagram(word[:i] + word[i+1:])
		if alphagrams[reduced] {
			return true
		}
	}
	return false
}
