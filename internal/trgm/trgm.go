// Package trgm implements trigram string matching compatible with the
// PostgreSQL pg_trgm extension: the same per-word "  w " padding, the same
// set similarity, and the same best-extent word similarity. The SQLite
// driver registers these as SQL functions so a query description behaves
// identically on both backends, and the ranker reuses them for in-process
// scoring.
package trgm

import (
	"strings"
	"unicode"
)

// trigram is a window of three runes from a padded word.
type trigram [3]rune

// words splits a string into maximal runs of letters and digits.
// Everything else is a separator, matching pg_trgm's word characters.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// wordTrigrams appends the trigrams of a single word, padded with two
// leading spaces and one trailing space ("word" yields "  w", " wo",
// "wor", "ord", "rd ").
func wordTrigrams(dst []trigram, word string) []trigram {
	padded := make([]rune, 0, len(word)+3)
	padded = append(padded, ' ', ' ')
	padded = append(padded, []rune(word)...)
	padded = append(padded, ' ')
	for i := 0; i+2 < len(padded); i++ {
		dst = append(dst, trigram{padded[i], padded[i+1], padded[i+2]})
	}
	return dst
}

// sequence returns the case-folded string's trigrams in textual order,
// duplicates included. The word-similarity sweep needs positions, so
// deduplication happens per extent, not globally.
func sequence(s string) []trigram {
	var out []trigram
	for _, w := range words(strings.ToLower(s)) {
		out = wordTrigrams(out, w)
	}
	return out
}

// set returns the case-folded string's unique trigrams.
func set(s string) map[trigram]struct{} {
	seq := sequence(s)
	out := make(map[trigram]struct{}, len(seq))
	for _, t := range seq {
		out[t] = struct{}{}
	}
	return out
}

// Similarity returns whole-string trigram similarity in [0,1]: the number
// of shared trigrams divided by the number of distinct trigrams in either
// string. Symmetric; 1 iff both strings fold to the same trigram set; 0 if
// either string has no trigrams.
func Similarity(a, b string) float64 {
	sa, sb := set(a), set(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	shared := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(sa)+len(sb)-shared)
}

// WordSimilarity returns the greatest similarity between needle and any
// contiguous extent of haystack's trigram sequence, in [0,1]. This matches
// pg_trgm: word_similarity('word', 'two words') = 0.8, because the best
// extent is exactly the four trigrams shared with "words". Not symmetric.
func WordSimilarity(needle, haystack string) float64 {
	q := set(needle)
	if len(q) == 0 {
		return 0
	}
	seq := sequence(haystack)
	if len(seq) == 0 {
		return 0
	}

	best := 0.0
	for i := range seq {
		// A best extent always starts and ends on a trigram shared with
		// the needle; extending past the edges only grows the denominator.
		if _, ok := q[seq[i]]; !ok {
			continue
		}
		counts := make(map[trigram]int)
		extent, matched := 0, 0
		for j := i; j < len(seq); j++ {
			t := seq[j]
			_, shared := q[t]
			if counts[t] == 0 {
				extent++
				if shared {
					matched++
				}
			}
			counts[t]++
			if !shared {
				continue
			}
			if s := float64(matched) / float64(len(q)+extent-matched); s > best {
				best = s
				if best == 1 {
					return 1
				}
			}
		}
	}
	return best
}

// Scorer evaluates the trigram primitives in-process. Stateless and safe
// for concurrent use.
type Scorer struct{}

// Similarity implements whole-string trigram similarity.
func (Scorer) Similarity(a, b string) float64 { return Similarity(a, b) }

// WordSimilarity implements best-extent trigram similarity.
func (Scorer) WordSimilarity(needle, haystack string) float64 {
	return WordSimilarity(needle, haystack)
}
