// Package letters provides alphabet helpers and the reference letter bag
// used for probability ranking. Words are canonicalized to upper case;
// '?' is the query blank marker and '_' is the blank tile in a bag
// distribution string.
package letters

import (
	"sort"
	"strings"
)

// Blank is the wildcard marker accepted in query operands.
const Blank = '?'

// BagBlank is the blank tile symbol in a distribution string.
const BagBlank = '_'

var pointValues = map[byte]int{
	'A': 1, 'B': 3, 'C': 3, 'D': 2, 'E': 1, 'F': 4, 'G': 2, 'H': 4,
	'I': 1, 'J': 8, 'K': 5, 'L': 1, 'M': 3, 'N': 1, 'O': 1, 'P': 3,
	'Q': 10, 'R': 1, 'S': 1, 'T': 1, 'U': 1, 'V': 4, 'W': 4, 'X': 8,
	'Y': 4, 'Z': 10,
}

// Normalize returns the canonical storage form of a word.
func Normalize(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// Alphagram returns the sorted-letter form of a word, the
// anagram-equivalence key.
func Alphagram(word string) string {
	b := []byte(Normalize(word))
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}

// NumVowels counts the vowels (AEIOU) in a word.
func NumVowels(word string) int {
	n := 0
	for _, r := range Normalize(word) {
		switch r {
		case 'A', 'E', 'I', 'O', 'U':
			n++
		}
	}
	return n
}

// NumUniqueLetters counts distinct letters in a word.
func NumUniqueLetters(word string) int {
	var seen [26]bool
	n := 0
	for _, r := range Normalize(word) {
		if r < 'A' || r > 'Z' {
			continue
		}
		if !seen[r-'A'] {
			seen[r-'A'] = true
			n++
		}
	}
	return n
}

// PointValue sums the tile point values of a word's letters. Letters
// outside A-Z contribute nothing.
func PointValue(word string) int {
	total := 0
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		total += pointValues[c]
	}
	return total
}
