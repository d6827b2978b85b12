package matching

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer compares two canonical keys and returns a similarity in [0,1].
// Implementations must be symmetric and return 1 only for identical keys.
type Scorer interface {
	Score(a, b string) float64
}

const (
	ScorerBlock = "block"
	ScorerEdit  = "edit"
)

// NewScorer returns the scorer registered under name. An empty name selects BlockRatio.
func NewScorer(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScorerBlock:
		return BlockRatio{}, nil
	case ScorerEdit:
		return EditRatio{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q: valid values are %s, %s", name, ScorerBlock, ScorerEdit)
	}
}

// BlockRatio is the Ratcliff/Obershelp matching-block ratio: 2*M/(len(a)+len(b)),
// where M is the total size of the matching blocks found longest-first.
type BlockRatio struct{}

func (BlockRatio) Score(a, b string) float64 {
	if a == b {
		return 1
	}
	// Longest-match tie-breaking depends on argument order; a fixed order keeps the score symmetric.
	if a > b {
		a, b = b, a
	}

	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	matched := matchedRunes(ra, rb)
	return 2 * float64(matched) / float64(total)
}

type span struct {
	aLo, aHi int
	bLo, bHi int
}

func matchedRunes(a, b []rune) int {
	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, positions, s)
		if size == 0 {
			continue
		}
		matched += size
		if s.aLo < i && s.bLo < j {
			queue = append(queue, span{s.aLo, i, s.bLo, j})
		}
		if i+size < s.aHi && j+size < s.bHi {
			queue = append(queue, span{i + size, s.aHi, j + size, s.bHi})
		}
	}

	return matched
}

// longestMatch finds the longest common run inside the span, preferring the
// earliest start in a and then in b.
func longestMatch(a []rune, positions map[rune][]int, s span) (int, int, int) {
	bestI, bestJ, bestSize := s.aLo, s.bLo, 0

	lengths := map[int]int{}
	for i := s.aLo; i < s.aHi; i++ {
		next := map[int]int{}
		for _, j := range positions[a[i]] {
			if j < s.bLo {
				continue
			}
			if j >= s.bHi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}

	return bestI, bestJ, bestSize
}

// EditRatio scores by normalized Levenshtein distance: 1 - dist/max(len(a), len(b)).
type EditRatio struct{}

func (EditRatio) Score(a, b string) float64 {
	if a == b {
		return 1
	}

	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
