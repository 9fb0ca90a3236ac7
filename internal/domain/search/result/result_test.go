package result

import "testing"

func TestNew(t *testing.T) {
	fields := map[string]string{"name": "João da Silva", "city": "Lisboa"}

	m := New("42", fields, 0.4)

	if m.Key() != "42" {
		t.Errorf("Key() = %q", m.Key())
	}
	if m.Relevance() != 0.4 {
		t.Errorf("Relevance() = %f", m.Relevance())
	}
	if m.Field("name") != "João da Silva" {
		t.Errorf("Field(name) = %q", m.Field("name"))
	}
	if m.Fields()["city"] != "Lisboa" {
		t.Errorf("Fields() = %v", m.Fields())
	}
}

func TestMatch_MissingField(t *testing.T) {
	m := New("1", map[string]string{"name": "x"}, 0.5)
	if m.Field("email") != "" {
		t.Errorf("Field(email) = %q, want empty", m.Field("email"))
	}
}

func TestNewSet(t *testing.T) {
	matches := []Match{
		New("1", nil, 0.9),
		New("2", nil, 0.4),
	}
	s := NewSet(17, matches)

	if s.Total() != 17 {
		t.Errorf("Total() = %d", s.Total())
	}
	if len(s.Matches()) != 2 {
		t.Errorf("len(Matches()) = %d", len(s.Matches()))
	}
	if s.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
}

func TestNewSet_Empty(t *testing.T) {
	s := NewSet(0, nil)
	if !s.IsEmpty() {
		t.Error("IsEmpty() = false")
	}
	if s.Total() != 0 {
		t.Errorf("Total() = %d", s.Total())
	}
}
