package rank

import (
	"sort"

	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/term"
)

// Metric identifies which similarity number a score term reads.
type Metric string

// Score metrics.
const (
	// WordSimilarity scores the term against the field's best word extent.
	WordSimilarity Metric = "word_similarity"
	// FullSimilarity scores the term against the entire field value.
	FullSimilarity Metric = "similarity"
)

// ScoreTerm names one similarity number: a (field, metric) pair evaluated
// against the normalized term.
type ScoreTerm struct {
	field  string
	metric Metric
}

// Field returns the column identifier the score reads.
func (t ScoreTerm) Field() string { return t.field }

// Metric returns which similarity function produces the score.
func (t ScoreTerm) Metric() Metric { return t.metric }

// Expression is the ordering description: a row's relevance is the
// greatest of all score terms, the single strongest similarity signal
// across every field and metric. Null field values coalesce to zero at
// render time so they never enter a numeric comparison.
type Expression struct {
	terms []ScoreTerm
}

// Compose builds the ordering expression for the given fields: two score
// terms per field, word similarity before whole-string similarity, in
// field order.
func Compose(fields []string) Expression {
	terms := make([]ScoreTerm, 0, 2*len(fields))
	for _, f := range fields {
		terms = append(terms,
			ScoreTerm{field: f, metric: WordSimilarity},
			ScoreTerm{field: f, metric: FullSimilarity},
		)
	}
	return Expression{terms: terms}
}

// Terms returns the score terms in evaluation order.
func (e Expression) Terms() []ScoreTerm { return e.terms }

// IsEmpty reports whether the expression has no score terms.
func (e Expression) IsEmpty() bool { return len(e.terms) == 0 }

// Scorer is the trigram similarity primitive. Storage engines evaluate it
// inside the rendered query; in-process ranking evaluates it here. Both
// must agree on semantics or filtering and ordering drift apart.
type Scorer interface {
	// Similarity is whole-string trigram similarity in [0,1], symmetric,
	// 1 iff both strings fold to the same trigram set.
	Similarity(a, b string) float64
	// WordSimilarity is the similarity between needle and its
	// best-matching word extent within haystack, in [0,1]. Not symmetric.
	WordSimilarity(needle, haystack string) float64
}

// Row is an unscored record as fetched from a store.
type Row struct {
	Key    string
	Fields map[string]string
}

// Score computes one row's relevance: per field the max of the two
// metrics, then the max across fields. Fields missing from the row
// contribute zero.
func Score(s Scorer, t term.Term, fields []string, row Row) float64 {
	best := 0.0
	for _, f := range fields {
		v, ok := row.Fields[f]
		if !ok || v == "" {
			continue
		}
		if ws := s.WordSimilarity(t.String(), v); ws > best {
			best = ws
		}
		if fs := s.Similarity(v, t.String()); fs > best {
			best = fs
		}
	}
	return best
}

// Rank scores rows against the term and returns them in descending
// relevance order. The sort is stable: rows with equal relevance keep
// their input order, so identical input always produces identical output.
func Rank(s Scorer, t term.Term, fields []string, rows []Row) []result.Match {
	matches := make([]result.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, result.New(row.Key, row.Fields, Score(s, t, fields, row)))
	}
	Order(matches)
	return matches
}

// Order sorts matches in place by descending relevance. Ties preserve the
// incoming order, which for store-executed queries is the backend's key
// tie-break and for in-process ranking is row insertion order.
func Order(matches []result.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance() > matches[j].Relevance()
	})
}
