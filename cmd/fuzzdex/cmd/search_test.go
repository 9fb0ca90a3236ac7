package cmd

import (
	"strings"
	"testing"
)

func TestSearchCmd_RequiresTable(t *testing.T) {
	_, err := execute(t, "search", "joao")
	if err == nil {
		t.Fatal("expected an error without --table")
	}
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, err := execute(t, "search", "--table", "people")
	if err == nil {
		t.Fatal("expected an error without query arguments")
	}
}

func TestFormatFields_StableOrder(t *testing.T) {
	got := formatFields(map[string]string{"name": "Ana", "city": "Braga"})
	want := `city="Braga" name="Ana"`
	if got != want {
		t.Errorf("formatFields() = %q, want %q", got, want)
	}
}

func TestFormatFields_Empty(t *testing.T) {
	if got := formatFields(nil); got != "" {
		t.Errorf("formatFields(nil) = %q, want empty", got)
	}
}

func TestFormatFields_QuotesValues(t *testing.T) {
	got := formatFields(map[string]string{"name": `João "Zé" Silva`})
	if !strings.Contains(got, `\"Zé\"`) {
		t.Errorf("formatFields() = %q, want embedded quotes escaped", got)
	}
}
