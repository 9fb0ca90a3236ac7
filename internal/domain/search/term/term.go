package term

import "strings"

// Term is the normalized form of a raw search phrase: whitespace runs
// collapsed to a single space, leading/trailing whitespace trimmed, and
// Unicode-aware lowercasing applied. Both the predicate composer and the
// relevance ranker must consume the same Term value so that candidate
// selection and scoring never disagree on casing.
type Term struct {
	value string
}

// Normalize canonicalizes a raw search phrase. It is total: any input,
// including the empty string, yields a valid Term. Normalization is
// idempotent and locale-independent (Unicode default casing, no hidden
// locale state).
func Normalize(raw string) Term {
	words := strings.Fields(strings.ToLower(raw))
	return Term{value: strings.Join(words, " ")}
}

// Reconstruct wraps an already-normalized value without re-normalizing.
// Callers are responsible for passing a value produced by Normalize.
func Reconstruct(normalized string) Term {
	return Term{value: normalized}
}

// String returns the normalized text.
func (t Term) String() string { return t.value }

// IsEmpty reports whether nothing remains after normalization.
func (t Term) IsEmpty() bool { return t.value == "" }
