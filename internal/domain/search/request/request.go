package request

import (
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/domain/search/term"
)

// Search parameter limits and defaults. The thresholds are overridable per
// request; they are deliberately not package-level tuning knobs.
const (
	// MaxTermLength is the maximum allowed raw search term length.
	MaxTermLength = 4096
	// MaxFields is the maximum number of fields one request may target.
	MaxFields = 16
	// DefaultMinWordSimilarity admits rows whose best word extent scores
	// above 0.3 against the term.
	DefaultMinWordSimilarity = 0.3
	// DefaultMinSimilarity admits rows whose whole field value scores
	// above 0.2 against the term.
	DefaultMinSimilarity = 0.2
	DefaultLimit         = 20
	MaxLimit             = 100
)

// Request is a validated fuzzy-search query. The normalized term is
// computed once at construction and reused by both the predicate composer
// and the relevance ranker, so candidate selection and scoring can never
// disagree on normalization.
type Request struct {
	rawTerm           string
	normalized        term.Term
	fields            []string
	minWordSimilarity float64
	minSimilarity     float64
	limit             int
	exactFirst        bool
}

// Option overrides a request default.
type Option func(*params)

type params struct {
	minWordSimilarity float64
	minSimilarity     float64
	limit             int
	exactFirst        bool
}

// WithMinWordSimilarity sets the word-similarity admission threshold.
// Values outside [0,1] are rejected by New, never clamped.
func WithMinWordSimilarity(v float64) Option {
	return func(p *params) { p.minWordSimilarity = v }
}

// WithMinSimilarity sets the whole-string similarity admission threshold.
// Values outside [0,1] are rejected by New, never clamped.
func WithMinSimilarity(v float64) Option {
	return func(p *params) { p.minSimilarity = v }
}

// WithLimit sets the maximum number of results to return.
func WithLimit(n int) Option {
	return func(p *params) { p.limit = n }
}

// WithExactFirst makes the service try an exact case-folded equality query
// first and fall back to the fuzzy predicate only when it returns nothing.
func WithExactFirst() Option {
	return func(p *params) { p.exactFirst = true }
}

// New validates and builds a search request.
// Defaults: minWordSimilarity=0.3, minSimilarity=0.2, limit=20.
func New(rawTerm string, fields []string, opts ...Option) (Request, error) {
	p := &params{
		minWordSimilarity: DefaultMinWordSimilarity,
		minSimilarity:     DefaultMinSimilarity,
		limit:             DefaultLimit,
	}
	for _, o := range opts {
		o(p)
	}

	if rawTerm == "" {
		return Request{}, fmt.Errorf("search term is required")
	}
	if len(rawTerm) > MaxTermLength {
		return Request{}, fmt.Errorf("search term too long (max %d chars)", MaxTermLength)
	}
	normalized := term.Normalize(rawTerm)
	if normalized.IsEmpty() {
		// A whitespace-only term would turn the containment predicate into
		// match-everything; reject it here instead of building that query.
		return Request{}, fmt.Errorf("search term is empty after normalization")
	}

	if len(fields) == 0 {
		return Request{}, fmt.Errorf("at least one search field is required")
	}
	if len(fields) > MaxFields {
		return Request{}, fmt.Errorf("too many search fields (max %d)", MaxFields)
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			return Request{}, fmt.Errorf("search field name is required")
		}
		if _, dup := seen[f]; dup {
			return Request{}, fmt.Errorf("duplicate search field %q", f)
		}
		seen[f] = struct{}{}
	}

	if p.minWordSimilarity < 0 || p.minWordSimilarity > 1 {
		return Request{}, fmt.Errorf("min_word_similarity must be between 0 and 1")
	}
	if p.minSimilarity < 0 || p.minSimilarity > 1 {
		return Request{}, fmt.Errorf("min_similarity must be between 0 and 1")
	}

	limit := p.limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		rawTerm:           rawTerm,
		normalized:        normalized,
		fields:            fields,
		minWordSimilarity: p.minWordSimilarity,
		minSimilarity:     p.minSimilarity,
		limit:             limit,
		exactFirst:        p.exactFirst,
	}, nil
}

// RawTerm returns the term as the caller supplied it.
func (r Request) RawTerm() string { return r.rawTerm }

// Term returns the normalized term shared by predicate and ranking.
func (r Request) Term() term.Term { return r.normalized }

// Fields returns the target field identifiers in request order.
func (r Request) Fields() []string { return r.fields }

// MinWordSimilarity returns the word-similarity admission threshold.
func (r Request) MinWordSimilarity() float64 { return r.minWordSimilarity }

// MinSimilarity returns the whole-string similarity admission threshold.
func (r Request) MinSimilarity() float64 { return r.minSimilarity }

// Limit returns the maximum results to return.
func (r Request) Limit() int { return r.limit }

// ExactFirst reports whether the exact-then-fuzzy strategy is enabled.
func (r Request) ExactFirst() bool { return r.exactFirst }
