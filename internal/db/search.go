package db

import (
	"database/sql"
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/domain/search/predicate"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/rank"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/term"
)

// SearchQuery is the backend-agnostic description of one fuzzy search:
// the typed predicate and ordering trees plus the values that bind at
// render time. It is immutable once built and carries no connection or
// dialect state.
type SearchQuery struct {
	Table   string
	Key     string
	Columns []string

	Predicate predicate.Expression
	Order     rank.Expression

	Term              term.Term
	MinWordSimilarity float64
	MinSimilarity     float64

	Limit int

	// ExactOnly renders case-folded equality instead of the fuzzy
	// predicate. Used by the exact-then-fuzzy strategy.
	ExactOnly bool
}

// SearchResult is the output of a search operation. It carries only the
// returned page; the full matching cardinality comes from Count.
type SearchResult struct {
	Entries []SearchEntry
}

// SearchEntry is a single row hit from a search.
type SearchEntry struct {
	Key       string
	Relevance float64
	Fields    map[string]string
}

// ScanEntries reads rows produced by a BuildSelect query: key, the
// selected columns in order, then the relevance alias. Null column values
// are omitted from the field map; null relevance is already coalesced to
// zero in the rendered SQL.
func ScanEntries(rows *sql.Rows, columns []string) ([]SearchEntry, error) {
	var entries []SearchEntry
	for rows.Next() {
		var key sql.NullString
		var relevance sql.NullFloat64
		values := make([]sql.NullString, len(columns))

		dest := make([]any, 0, len(columns)+2)
		dest = append(dest, &key)
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &relevance)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		fields := make(map[string]string, len(columns))
		for i, c := range columns {
			if values[i].Valid {
				fields[c] = values[i].String
			}
		}
		entries = append(entries, SearchEntry{
			Key:       key.String,
			Relevance: relevance.Float64,
			Fields:    fields,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}
