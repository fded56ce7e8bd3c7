package letters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultDistribution is the standard English tile supply, including
// two blank tiles.
const DefaultDistribution = "A:9 B:2 C:2 D:4 E:12 F:2 G:3 H:2 I:9 J:1 " +
	"K:1 L:4 M:2 N:6 O:8 P:2 Q:1 R:6 S:4 T:6 U:4 V:2 W:2 X:1 Y:2 Z:1 _:2"

// Bag is a fixed multiset of letter tiles. Its only operation is
// counting the distinct ways a word's letters could be drawn from it,
// which is the basis of probability ranking: rarer letter combinations
// yield smaller counts.
type Bag struct {
	counts [26]int
	blanks int
	total  int
	choose [][]float64
}

// NewBag parses a distribution string of space-separated "L:count"
// pairs ('_' denotes the blank tile) into a Bag.
func NewBag(distribution string) (*Bag, error) {
	b := &Bag{}
	for _, field := range strings.Fields(distribution) {
		sym, countStr, ok := strings.Cut(field, ":")
		if !ok || len(sym) != 1 {
			return nil, fmt.Errorf("invalid distribution entry %q", field)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("invalid tile count in %q", field)
		}
		c := sym[0]
		switch {
		case c >= 'a' && c <= 'z':
			b.counts[c-'a'] += count
		case c >= 'A' && c <= 'Z':
			b.counts[c-'A'] += count
		case c == BagBlank:
			b.blanks += count
		default:
			return nil, fmt.Errorf("invalid tile symbol %q", field)
		}
		b.total += count
	}
	if b.total == 0 {
		return nil, fmt.Errorf("empty letter distribution")
	}
	b.buildChooseTable()
	return b, nil
}

// MustBag is NewBag for known-good distribution literals.
func MustBag(distribution string) *Bag {
	b, err := NewBag(distribution)
	if err != nil {
		log.Fatalf("letter bag: %v", err)
	}
	return b
}

func (b *Bag) buildChooseTable() {
	max := 0
	for _, c := range b.counts {
		if c > max {
			max = c
		}
	}
	if b.blanks > max {
		max = b.blanks
	}
	b.choose = make([][]float64, max+1)
	for n := 0; n <= max; n++ {
		b.choose[n] = make([]float64, n+1)
		b.choose[n][0] = 1
		for r := 1; r <= n; r++ {
			v := b.choose[n-1][r-1]
			if r <= n-1 {
				v += b.choose[n-1][r]
			}
			b.choose[n][r] = v
		}
	}
}

func (b *Bag) nCr(n, r int) float64 {
	if r < 0 || r > n {
		return 0
	}
	return b.choose[n][r]
}

// Combinations returns the number of distinct ways the word's letter
// multiset could be drawn from the bag. Every valid assignment of blank
// tiles to letters is summed, so a word remains drawable (with a lower
// count contribution) even when its letters exceed the plain supply.
// Characters outside A-Z in the word are ignored.
func (b *Bag) Combinations(word string) float64 {
	var need [26]int
	for _, r := range Normalize(word) {
		if r >= 'A' && r <= 'Z' {
			need[r-'A']++
		}
	}
	distinct := make([]int, 0, 16)
	for i, n := range need {
		if n > 0 {
			distinct = append(distinct, i)
		}
	}
	return b.comboRec(distinct, need, 0, 0)
}

// comboRec walks the distinct letters, choosing how many copies of each
// come from blank tiles, and sums the draw counts of every assignment.
func (b *Bag) comboRec(distinct []int, need [26]int, idx, blanksUsed int) float64 {
	if blanksUsed > b.blanks {
		return 0
	}
	if idx == len(distinct) {
		return b.nCr(b.blanks, blanksUsed)
	}
	letter := distinct[idx]
	total := 0.0
	for fromBlanks := 0; fromBlanks <= need[letter]; fromBlanks++ {
		fromSupply := need[letter] - fromBlanks
		ways := b.nCr(b.counts[letter], fromSupply)
		if ways == 0 {
			continue
		}
		total += ways * b.comboRec(distinct, need, idx+1, blanksUsed+fromBlanks)
	}
	return total
}

// Supply reports how many tiles of the given letter the bag holds.
func (b *Bag) Supply(letter byte) int {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return 0
	}
	return b.counts[letter-'A']
}

// Blanks reports the number of blank tiles in the bag.
func (b *Bag) Blanks() int { return b.blanks }
