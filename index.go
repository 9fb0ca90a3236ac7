package fuzzdex

import (
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
)

// TypedIndex is a schema-first handle over one searchable table.
// Column mapping is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	name   string
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed handle for the given table. T must be a
// struct with fuzzdex tags naming the table's key and searchable
// columns; the tags are checked against the client's catalog so schema
// drift fails here instead of at query time.
func NewIndex[T any](client *Client, name string) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}

	tbl, ok := client.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("new index %q: %w", name, ErrTableNotFound)
	}
	if meta.keyName != tbl.Key() {
		return nil, fmt.Errorf("new index %q: key column %q does not match table key %q",
			name, meta.keyName, tbl.Key())
	}
	for _, f := range meta.fields {
		if !tbl.HasColumn(f.name) {
			return nil, fmt.Errorf("new index %q: %w", name, domain.NewUnknownField(f.name, name))
		}
	}

	return &TypedIndex[T]{name: name, client: client, meta: meta}, nil
}

// Search returns a fluent typed search builder for this index. It
// targets the columns T tags, which may be a subset of the table's
// searchable columns.
func (idx *TypedIndex[T]) Search() *TypedSearchBuilder[T] {
	inner := idx.client.Search(idx.name).Fields(idx.meta.columnNames()...)
	return &TypedSearchBuilder[T]{idx: idx, inner: inner}
}
