package fuzzdex

import "context"

// TypedHit is one scored row converted back to its schema struct.
type TypedHit[T any] struct {
	Item      T
	Relevance float64
}

// TypedSearchBuilder is a fluent builder for typed searches.
type TypedSearchBuilder[T any] struct {
	idx   *TypedIndex[T]
	inner *SearchBuilder
}

// Term sets the raw search phrase.
func (b *TypedSearchBuilder[T]) Term(term string) *TypedSearchBuilder[T] {
	b.inner.Term(term)
	return b
}

// Fields narrows the search to a subset of T's tagged columns.
func (b *TypedSearchBuilder[T]) Fields(fields ...string) *TypedSearchBuilder[T] {
	b.inner.Fields(fields...)
	return b
}

// MinWordSimilarity overrides the word-similarity admission threshold.
func (b *TypedSearchBuilder[T]) MinWordSimilarity(v float64) *TypedSearchBuilder[T] {
	b.inner.MinWordSimilarity(v)
	return b
}

// MinSimilarity overrides the whole-string similarity admission threshold.
func (b *TypedSearchBuilder[T]) MinSimilarity(v float64) *TypedSearchBuilder[T] {
	b.inner.MinSimilarity(v)
	return b
}

// Limit caps the number of returned hits.
func (b *TypedSearchBuilder[T]) Limit(n int) *TypedSearchBuilder[T] {
	b.inner.Limit(n)
	return b
}

// ExactFirst makes the search try case-folded equality before the fuzzy
// predicate.
func (b *TypedSearchBuilder[T]) ExactFirst() *TypedSearchBuilder[T] {
	b.inner.ExactFirst()
	return b
}

// Do executes the search and converts the hits back to T, best match
// first.
func (b *TypedSearchBuilder[T]) Do(ctx context.Context) ([]TypedHit[T], error) {
	hits, err := b.inner.Do(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TypedHit[T], 0, len(hits))
	for _, h := range hits {
		item, ok := b.idx.meta.fromHit(h).(T)
		if !ok {
			continue
		}
		out = append(out, TypedHit[T]{Item: item, Relevance: h.Relevance})
	}
	return out, nil
}

// Describe renders the typed search as SQL without executing it.
func (b *TypedSearchBuilder[T]) Describe() (*QueryDescription, error) {
	return b.inner.Describe()
}
