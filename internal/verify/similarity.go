package verify

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Similarity policy used by the collectors.
const (
	DiscardBelow = 55
	MatchAtLeast = 62
)

// SimilarityBreakdown exposes the individual metrics behind Similarity.
type SimilarityBreakdown struct {
	Ratio     int
	Partial   int
	TokenSort int
}

// Best returns the highest of the three metrics.
func (b SimilarityBreakdown) Best() int {
	best := b.Ratio
	if b.Partial > best {
		best = b.Partial
	}
	if b.TokenSort > best {
		best = b.TokenSort
	}
	return best
}

// Similarity scores how alike two headlines are on a 0-100 scale, ignoring
// case. Rewording, truncation and reordering are each tolerated by one of
// the underlying metrics.
func Similarity(a, b string) int {
	return CompareHeadlines(a, b).Best()
}

// CompareHeadlines computes every similarity metric for a and b.
func CompareHeadlines(a, b string) SimilarityBreakdown {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	sa, sb := sortedTokens(ra), sortedTokens(rb)
	return SimilarityBreakdown{
		Ratio:     percent(math.Max(matchRatio(ra, rb), matchRatio(rb, ra))),
		Partial:   max(partialRatio(ra, rb), partialRatio(rb, ra)),
		TokenSort: percent(math.Max(matchRatio(sa, sb), matchRatio(sb, sa))),
	}
}

// percent rounds half to even so scores agree with the thresholds' tuning.
func percent(r float64) int {
	return int(math.RoundToEven(100 * r))
}

// matchRatio is 2*M/T where M counts characters in matching blocks and T is
// the combined length. Empty input scores 0. Block discovery depends on
// argument order, so callers take the better of both orders.
func matchRatio(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := 0
	for _, blk := range newMatcher(a, b).matchingBlocks() {
		matched += blk.size
	}
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// partialRatio aligns the shorter string against the longer one at every
// matching block and keeps the best equal-length window. a is treated as the
// shorter one when lengths are equal.
func partialRatio(a, b []rune) int {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0.0
	for _, blk := range newMatcher(short, long).matchingBlocks() {
		start := blk.j - blk.i
		if start < 0 {
			start = 0
		}
		end := start + len(short)
		if end > len(long) {
			end = len(long)
		}
		r := matchRatio(short, long[start:end])
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return percent(best)
}

func sortedTokens(s []rune) []rune {
	tokens := strings.FieldsFunc(string(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	sort.Strings(tokens)
	return []rune(strings.Join(tokens, " "))
}

// block is a run of size equal elements starting at a[i] and b[j].
type block struct {
	i, j, size int
}

// matcher finds the longest contiguous matching blocks between two
// sequences, recursing into the unmatched gaps on either side.
type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

// Characters occurring in more than 1% of a long b are not used to seed
// matches, though blocks may still extend across them.
const popularMinLen = 200

func newMatcher(a, b []rune) *matcher {
	m := &matcher{a: a, b: b, b2j: make(map[rune][]int)}
	for j, r := range b {
		m.b2j[r] = append(m.b2j[r], j)
	}
	if n := len(b); n >= popularMinLen {
		limit := n/100 + 1
		for r, idx := range m.b2j {
			if len(idx) > limit {
				delete(m.b2j, r)
			}
		}
	}
	return m
}

func (m *matcher) longestMatch(alo, ahi, blo, bhi int) block {
	best := block{i: alo, j: blo}
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > best.size {
				best = block{i: i - k + 1, j: j - k + 1, size: k}
			}
		}
		j2len = next
	}

	for best.i > alo && best.j > blo && m.a[best.i-1] == m.b[best.j-1] {
		best.i--
		best.j--
		best.size++
	}
	for best.i+best.size < ahi && best.j+best.size < bhi && m.a[best.i+best.size] == m.b[best.j+best.size] {
		best.size++
	}
	return best
}

// matchingBlocks returns the non-adjacent matching blocks in order, followed
// by a zero-size block at (len(a), len(b)).
func (m *matcher) matchingBlocks() []block {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var found []block
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		blk := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if blk.size == 0 {
			continue
		}
		found = append(found, blk)
		if s.alo < blk.i && s.blo < blk.j {
			queue = append(queue, span{s.alo, blk.i, s.blo, blk.j})
		}
		if blk.i+blk.size < s.ahi && blk.j+blk.size < s.bhi {
			queue = append(queue, span{blk.i + blk.size, s.ahi, blk.j + blk.size, s.bhi})
		}
	}
	sort.Slice(found, func(x, y int) bool {
		if found[x].i != found[y].i {
			return found[x].i < found[y].i
		}
		return found[x].j < found[y].j
	})

	var out []block
	cur := block{}
	for _, blk := range found {
		if cur.i+cur.size == blk.i && cur.j+cur.size == blk.j {
			cur.size += blk.size
			continue
		}
		if cur.size > 0 {
			out = append(out, cur)
		}
		cur = blk
	}
	if cur.size > 0 {
		out = append(out, cur)
	}
	return append(out, block{i: len(m.a), j: len(m.b)})
}
