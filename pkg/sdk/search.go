package fuzzdex

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// searchPayload is the wire form of one search. Pointer fields are
// omitted when unset so the server applies its own defaults.
type searchPayload struct {
	Term              string   `json:"term"`
	Fields            []string `json:"fields,omitempty"`
	MinWordSimilarity *float64 `json:"min_word_similarity,omitempty"`
	MinSimilarity     *float64 `json:"min_similarity,omitempty"`
	Limit             *int     `json:"limit,omitempty"`
	ExactFirst        *bool    `json:"exact_first,omitempty"`
}

// SearchOption tunes a single search call.
type SearchOption interface {
	applySearch(*searchPayload)
}

type searchOptionFunc func(*searchPayload)

func (f searchOptionFunc) applySearch(p *searchPayload) { f(p) }

// Fields restricts matching to the given columns. Default: every
// searchable column of the table.
func Fields(fields ...string) SearchOption {
	return searchOptionFunc(func(p *searchPayload) {
		p.Fields = fields
	})
}

// MinWordSimilarity overrides the server threshold for per-word
// matches within a value.
func MinWordSimilarity(v float64) SearchOption {
	return searchOptionFunc(func(p *searchPayload) {
		p.MinWordSimilarity = &v
	})
}

// MinSimilarity overrides the server threshold for whole-value
// similarity.
func MinSimilarity(v float64) SearchOption {
	return searchOptionFunc(func(p *searchPayload) {
		p.MinSimilarity = &v
	})
}

// Limit caps the number of returned rows.
func Limit(n int) SearchOption {
	return searchOptionFunc(func(p *searchPayload) {
		p.Limit = &n
	})
}

// ExactFirst pins rows whose value equals the term case-insensitively
// to the top of the page.
func ExactFirst() SearchOption {
	return searchOptionFunc(func(p *searchPayload) {
		t := true
		p.ExactFirst = &t
	})
}

// Search runs a typo-tolerant search against one table. Tuning
// parameters not set through options fall back to the server defaults.
func (c *Client) Search(ctx context.Context, table, term string, opts ...SearchOption) (res *SearchResult, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	payload := searchPayload{Term: term}
	for _, o := range opts {
		o.applySearch(&payload)
	}

	var out SearchResult
	path := "/v1/tables/" + url.PathEscape(table) + "/search"
	if err = c.do(ctx, http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
