package pipeline

import (
	"strings"
	"unicode"

	"leadminer-engine/internal/domain"
)

// Dedupe removes exact and near-duplicate items, preserving input order with
// first-occurrence-wins semantics.
//
// Stage 1 drops items whose link was already seen (the link is the canonical
// identifier). Stage 2 drops items whose normalized title is more similar than
// threshold to any previously kept title. The title comparison is O(n²) in the
// number of kept items; per-run volumes are tens to low hundreds, so no
// truncation happens at any input size.
//
// Items with an empty link or an empty normalized title cannot be keyed or
// meaningfully compared and are dropped outright.
func Dedupe(items []domain.RawItem, threshold float64) []domain.RawItem {
	seenLinks := make(map[string]bool, len(items))
	var keptTitles []string
	var out []domain.RawItem

	for _, it := range items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		if seenLinks[link] {
			continue
		}

		title := NormalizeTitle(it.Title)
		if title == "" {
			continue
		}

		dup := false
		for _, kept := range keptTitles {
			if SimilarityRatio(title, kept) > threshold {
				dup = true
				break
			}
		}
		if dup {
			// the link is still recorded so a later exact copy of a
			// near-duplicate doesn't get re-scored
			seenLinks[link] = true
			continue
		}

		seenLinks[link] = true
		keptTitles = append(keptTitles, title)
		out = append(out, it)
	}
	return out
}

// NormalizeTitle lowercases and strips everything except letters, digits, and
// spaces, collapsing runs of whitespace.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SimilarityRatio is a sequence-similarity measure in [0, 1]: twice the number
// of matching characters (found by recursively taking the longest common
// substring) over the total length of both strings. Equivalent to Python's
// difflib.SequenceMatcher ratio without the junk heuristic, which is how the
// dedup threshold was originally tuned.
func SimilarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	m := matchTotal([]byte(a), []byte(b))
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

func matchTotal(a, b []byte) int {
	ai, bi, n := longestMatch(a, b)
	if n == 0 {
		return 0
	}
	return n + matchTotal(a[:ai], b[:bi]) + matchTotal(a[ai+n:], b[bi+n:])
}

// longestMatch finds the longest common substring of a and b, returning its
// start offsets and length. Earliest match in a wins ties.
func longestMatch(a, b []byte) (besti, bestj, bestn int) {
	j2len := make(map[int]int)
	for i := range a {
		newj2len := make(map[int]int)
		for j := range b {
			if b[j] != a[i] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestn {
				besti, bestj, bestn = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestn
}
