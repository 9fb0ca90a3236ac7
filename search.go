package fuzzdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	searchrepo "github.com/kailas-cloud/fuzzdex/internal/repository/search"
)

// Hit is one scored row of a search result page.
type Hit struct {
	Key       string
	Fields    map[string]string
	Relevance float64
}

// QueryDescription is the rendered form of one search: the candidate
// select with its bind values, the matching-row count for the same
// predicate, and the ordering clause on its own. The search term never
// appears in the SQL text; it travels in Args.
type QueryDescription struct {
	Dialect   string
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
	OrderSQL  string
}

// SearchBuilder is a fluent builder for fuzzy searches against one table.
type SearchBuilder struct {
	client *Client
	table  string

	term   string
	fields []string

	minWordSimilarity *float64
	minSimilarity     *float64
	limit             int
	exactFirst        bool
}

// Term sets the raw search phrase. Normalization (case folding,
// whitespace collapsing) happens when the search is built.
func (b *SearchBuilder) Term(term string) *SearchBuilder {
	b.term = term
	return b
}

// Fields restricts the search to the given columns. When not called, the
// search covers every searchable column of the table.
func (b *SearchBuilder) Fields(fields ...string) *SearchBuilder {
	b.fields = fields
	return b
}

// MinWordSimilarity overrides the word-similarity admission threshold
// for this search. Values outside [0,1] are rejected, never clamped.
func (b *SearchBuilder) MinWordSimilarity(v float64) *SearchBuilder {
	b.minWordSimilarity = &v
	return b
}

// MinSimilarity overrides the whole-string similarity admission
// threshold for this search. Values outside [0,1] are rejected, never
// clamped.
func (b *SearchBuilder) MinSimilarity(v float64) *SearchBuilder {
	b.minSimilarity = &v
	return b
}

// Limit caps the number of returned hits.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// ExactFirst makes the search try case-folded equality before the fuzzy
// predicate, falling back only when the exact pass returns nothing.
func (b *SearchBuilder) ExactFirst() *SearchBuilder {
	b.exactFirst = true
	return b
}

// Do executes the search and returns the scored page, best match first.
func (b *SearchBuilder) Do(ctx context.Context) ([]Hit, error) {
	_, req, err := b.resolve()
	if err != nil {
		return nil, err
	}

	set, err := b.client.searcher.Search(ctx, b.table, req)
	if err != nil {
		return nil, err
	}

	matches := set.Matches()
	hits := make([]Hit, len(matches))
	for i, m := range matches {
		hits[i] = Hit{Key: m.Key(), Fields: m.Fields(), Relevance: m.Relevance()}
	}
	return hits, nil
}

// Describe renders the search as SQL for the connected store's dialect
// without executing it. With ExactFirst set it still renders the fuzzy
// candidate query; the exact pass is an execution strategy, not a
// different description.
func (b *SearchBuilder) Describe() (*QueryDescription, error) {
	tbl, req, err := b.resolve()
	if err != nil {
		return nil, err
	}

	q := searchrepo.BuildQuery(tbl, req, false)
	dialect := b.client.dialect

	sqlText, args, err := db.BuildSelect(dialect, q)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", b.table, err)
	}
	countText, countArgs, err := db.BuildCount(dialect, q)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", b.table, err)
	}
	orderText, err := db.BuildOrder(q)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", b.table, err)
	}

	return &QueryDescription{
		Dialect:   dialect.String(),
		SQL:       sqlText,
		Args:      args,
		CountSQL:  countText,
		CountArgs: countArgs,
		OrderSQL:  orderText,
	}, nil
}

// resolve looks up the table, fills in default fields, and builds the
// validated request.
func (b *SearchBuilder) resolve() (schema.Table, request.Request, error) {
	tbl, ok := b.client.catalog.Get(b.table)
	if !ok {
		return schema.Table{}, request.Request{}, fmt.Errorf("%w: %s", ErrTableNotFound, b.table)
	}

	fields := b.fields
	if len(fields) == 0 {
		fields = tbl.Columns()
	}
	for _, f := range fields {
		if !tbl.HasColumn(f) {
			return schema.Table{}, request.Request{}, domain.NewUnknownField(f, b.table)
		}
	}

	opts := make([]request.Option, 0, 4)
	switch {
	case b.minWordSimilarity != nil:
		opts = append(opts, request.WithMinWordSimilarity(*b.minWordSimilarity))
	case b.client.defaults.minWordSimilarity > 0:
		opts = append(opts, request.WithMinWordSimilarity(b.client.defaults.minWordSimilarity))
	}
	switch {
	case b.minSimilarity != nil:
		opts = append(opts, request.WithMinSimilarity(*b.minSimilarity))
	case b.client.defaults.minSimilarity > 0:
		opts = append(opts, request.WithMinSimilarity(b.client.defaults.minSimilarity))
	}
	switch {
	case b.limit > 0:
		opts = append(opts, request.WithLimit(b.limit))
	case b.client.defaults.limit > 0:
		opts = append(opts, request.WithLimit(b.client.defaults.limit))
	}
	if b.exactFirst {
		opts = append(opts, request.WithExactFirst())
	}

	req, err := request.New(b.term, fields, opts...)
	if err != nil {
		return schema.Table{}, request.Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return tbl, req, nil
}
