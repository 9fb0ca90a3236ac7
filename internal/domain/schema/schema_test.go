package schema

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tbl, err := New("people", "id", []string{"name", "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Name() != "people" {
		t.Errorf("Name() = %q", tbl.Name())
	}
	if tbl.Key() != "id" {
		t.Errorf("Key() = %q", tbl.Key())
	}
	if len(tbl.Columns()) != 2 {
		t.Errorf("Columns() len = %d, want 2", len(tbl.Columns()))
	}
	if !tbl.HasColumn("name") || !tbl.HasColumn("email") {
		t.Error("HasColumn() = false for registered column")
	}
	if tbl.HasColumn("id") {
		t.Error("HasColumn(id) = true, key is not searchable")
	}
	if tbl.HasColumn("phone") {
		t.Error("HasColumn(phone) = true for unknown column")
	}
}

func TestNew_InvalidIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		key     string
		columns []string
		wantErr string
	}{
		{"empty table name", "", "id", []string{"name"}, "required"},
		{"table name too long", strings.Repeat("a", 65), "id", []string{"name"}, "too long"},
		{"table name with space", "my table", "id", []string{"name"}, "alphanumeric"},
		{"table name with quote", `people"; drop`, "id", []string{"name"}, "alphanumeric"},
		{"table name with dash", "my-table", "id", []string{"name"}, "alphanumeric"},
		{"empty key", "people", "", []string{"name"}, "required"},
		{"key with dot", "people", "p.id", []string{"name"}, "alphanumeric"},
		{"no columns", "people", "id", nil, "at least one"},
		{"empty column name", "people", "id", []string{"name", ""}, "required"},
		{"column with paren", "people", "id", []string{"name)--"}, "alphanumeric"},
		{"column with reserved prefix", "people", "id", []string{"__relevance"}, "reserved"},
		{"duplicate column", "people", "id", []string{"name", "name"}, "duplicate"},
		{"key listed as column", "people", "id", []string{"name", "id"}, "cannot be a searchable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.table, tt.key, tt.columns)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_TooManyColumns(t *testing.T) {
	columns := make([]string, MaxColumns+1)
	for i := range columns {
		columns[i] = "c" + strings.Repeat("x", i+1)
	}
	_, err := New("people", "id", columns)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too many columns") {
		t.Errorf("error = %q", err)
	}
}

func TestNewCatalog(t *testing.T) {
	people, _ := New("people", "id", []string{"name"})
	movies, _ := New("movies", "id", []string{"title", "director"})

	cat, err := NewCatalog(people, movies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := cat.Get("movies")
	if !ok {
		t.Fatal("Get(movies) not found")
	}
	if got.Key() != "id" || len(got.Columns()) != 2 {
		t.Errorf("Get(movies) = %+v", got)
	}
	if _, ok := cat.Get("unknown"); ok {
		t.Error("Get(unknown) = found")
	}

	tables := cat.Tables()
	if len(tables) != 2 || tables[0].Name() != "people" || tables[1].Name() != "movies" {
		t.Errorf("Tables() order = %v", []string{tables[0].Name(), tables[1].Name()})
	}
}

func TestNewCatalog_DuplicateTable(t *testing.T) {
	a, _ := New("people", "id", []string{"name"})
	b, _ := New("people", "key", []string{"email"})

	_, err := NewCatalog(a, b)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "duplicate table") {
		t.Errorf("error = %q", err)
	}
}

func TestNewCatalog_Empty(t *testing.T) {
	cat, err := NewCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cat.IsEmpty() {
		t.Error("IsEmpty() = false")
	}
}
