package fuzzdex

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type person struct {
	ID   string `fuzzdex:"id,key"`
	Name string `fuzzdex:"name"`
	City string `fuzzdex:"city"`
}

func TestNewIndex(t *testing.T) {
	c := newTestClient(t)

	idx, err := NewIndex[person](c, "people")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := idx.Search().Term("joao").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("hits = %d, want 1", len(res))
	}
	got := res[0].Item
	if got.ID != "p1" || got.Name != "João da Silva" || got.City != "São Paulo" {
		t.Errorf("item = %+v, want p1 with original values", got)
	}
	if res[0].Relevance <= 0.3 || res[0].Relevance >= 0.5 {
		t.Errorf("relevance = %v, want within (0.3, 0.5)", res[0].Relevance)
	}
}

func TestNewIndex_PointerType(t *testing.T) {
	c := newTestClient(t)

	idx, err := NewIndex[*person](c, "people")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := idx.Search().Term("joao").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("hits = %d, want 1", len(res))
	}
	if res[0].Item == nil || res[0].Item.ID != "p1" {
		t.Errorf("item = %+v, want p1", res[0].Item)
	}
}

func TestNewIndex_NullColumnLeavesZeroField(t *testing.T) {
	c := newTestClient(t)

	idx, err := NewIndex[person](c, "people")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := idx.Search().Term("lisbon").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("hits = %d, want 1", len(res))
	}
	if res[0].Item.ID != "p5" || res[0].Item.Name != "" || res[0].Item.City != "Lisbon" {
		t.Errorf("item = %+v, want p5 with empty name", res[0].Item)
	}
}

func TestNewIndex_UnknownTable(t *testing.T) {
	c := newTestClient(t)

	_, err := NewIndex[person](c, "missing")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestNewIndex_KeyMismatch(t *testing.T) {
	type wrongKey struct {
		UUID string `fuzzdex:"uuid,key"`
		Name string `fuzzdex:"name"`
	}

	c := newTestClient(t)

	_, err := NewIndex[wrongKey](c, "people")
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Errorf("expected key mismatch error, got %v", err)
	}
}

func TestNewIndex_UnknownColumn(t *testing.T) {
	type extraColumn struct {
		ID    string `fuzzdex:"id,key"`
		Email string `fuzzdex:"email"`
	}

	c := newTestClient(t)

	_, err := NewIndex[extraColumn](c, "people")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestNewIndex_BadSchema(t *testing.T) {
	type noKey struct {
		Name string `fuzzdex:"name"`
	}

	c := newTestClient(t)

	_, err := NewIndex[noKey](c, "people")
	if err == nil || !strings.Contains(err.Error(), "key") {
		t.Errorf("expected schema error naming the key tag, got %v", err)
	}
}

func TestTypedSearch_TagsScopeTheFields(t *testing.T) {
	// T tags only the name column, so a city-only match stays invisible
	// even though the table's catalog entry covers both columns.
	type nameOnly struct {
		ID   string `fuzzdex:"id,key"`
		Name string `fuzzdex:"name"`
	}

	c := newTestClient(t)
	ctx := context.Background()

	idx, err := NewIndex[nameOnly](c, "people")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := idx.Search().Term("lisbon").Do(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("hits = %d, want 0 when the matching column is untagged", len(res))
	}

	res, err = idx.Search().Term("silva").Do(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("hits = %d, want 2 on the tagged column", len(res))
	}
}

func TestTypedSearch_Describe(t *testing.T) {
	c := newTestClient(t)

	idx, err := NewIndex[person](c, "people")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := idx.Search().Term("joao").Describe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(d.SQL, `"name"`) || !strings.Contains(d.SQL, `"city"`) {
		t.Errorf("sql should target every tagged column:\n%s", d.SQL)
	}
}
