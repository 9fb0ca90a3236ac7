package fuzzdex

import (
	"reflect"
	"strings"
	"testing"
)

type taggedPerson struct {
	ID    string `fuzzdex:"id,key"`
	Name  string `fuzzdex:"name"`
	City  string `fuzzdex:"city"`
	Age   int
	Notes string `fuzzdex:"-"`
}

func TestParseSchema(t *testing.T) {
	meta, err := parseSchema[taggedPerson]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.keyName != "id" {
		t.Errorf("key = %q, want id", meta.keyName)
	}
	if got := meta.columnNames(); !reflect.DeepEqual(got, []string{"name", "city"}) {
		t.Errorf("columns = %v, want [name city]", got)
	}
	if meta.ptr {
		t.Error("value type must not be marked as pointer")
	}
}

func TestParseSchema_Pointer(t *testing.T) {
	meta, err := parseSchema[*taggedPerson]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !meta.ptr {
		t.Error("pointer type must be marked as pointer")
	}
	if meta.keyName != "id" {
		t.Errorf("key = %q, want id", meta.keyName)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	type noKey struct {
		Name string `fuzzdex:"name"`
	}
	type dupKey struct {
		A string `fuzzdex:"a,key"`
		B string `fuzzdex:"b,key"`
	}
	type noColumns struct {
		ID string `fuzzdex:"id,key"`
	}
	type intColumn struct {
		ID  string `fuzzdex:"id,key"`
		Age int    `fuzzdex:"age"`
	}
	type badModifier struct {
		ID   string `fuzzdex:"id,key"`
		Name string `fuzzdex:"name,vector"`
	}
	type dupColumn struct {
		ID string `fuzzdex:"id,key"`
		A  string `fuzzdex:"name"`
		B  string `fuzzdex:"name"`
	}
	type emptyName struct {
		ID   string `fuzzdex:"id,key"`
		Name string `fuzzdex:","`
	}

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"no key", func() error { _, err := parseSchema[noKey](); return err }, "key"},
		{"duplicate key", func() error { _, err := parseSchema[dupKey](); return err }, "duplicate key"},
		{"no columns", func() error { _, err := parseSchema[noColumns](); return err }, "no searchable columns"},
		{"non-string column", func() error { _, err := parseSchema[intColumn](); return err }, "must be a string"},
		{"unknown modifier", func() error { _, err := parseSchema[badModifier](); return err }, `unknown modifier "vector"`},
		{"duplicate column", func() error { _, err := parseSchema[dupColumn](); return err }, "duplicate column"},
		{"empty column name", func() error { _, err := parseSchema[emptyName](); return err }, "empty column name"},
		{"not a struct", func() error { _, err := parseSchema[int](); return err }, "not a struct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestFromHit(t *testing.T) {
	meta, err := parseSchema[taggedPerson]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := meta.fromHit(Hit{
		Key:    "p9",
		Fields: map[string]string{"name": "Ana Lima", "city": "Braga"},
	}).(taggedPerson)
	if !ok {
		t.Fatal("fromHit returned the wrong type")
	}
	want := taggedPerson{ID: "p9", Name: "Ana Lima", City: "Braga"}
	if got != want {
		t.Errorf("item = %+v, want %+v", got, want)
	}
}

func TestFromHit_MissingColumnStaysZero(t *testing.T) {
	meta, err := parseSchema[taggedPerson]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := meta.fromHit(Hit{Key: "p9", Fields: map[string]string{"city": "Braga"}}).(taggedPerson)
	if got.Name != "" {
		t.Errorf("name = %q, want zero value for the missing column", got.Name)
	}
}

func TestFromHit_Pointer(t *testing.T) {
	meta, err := parseSchema[*taggedPerson]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := meta.fromHit(Hit{Key: "p9", Fields: map[string]string{"name": "Ana Lima"}}).(*taggedPerson)
	if !ok {
		t.Fatal("fromHit returned the wrong type")
	}
	if got.ID != "p9" || got.Name != "Ana Lima" {
		t.Errorf("item = %+v, want p9 Ana Lima", got)
	}
}
