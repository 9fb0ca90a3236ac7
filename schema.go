package fuzzdex

import (
	"fmt"
	"reflect"
	"strings"
)

const tagKey = "fuzzdex"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction
	ptr bool         // T is a pointer to the struct

	keyIdx  int
	keyName string

	// Mapping from struct field index to searchable column name.
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts fuzzdex struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ptr := false
	if t.Kind() == reflect.Pointer {
		ptr = true
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fuzzdex: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, ptr: ptr, keyIdx: -1}

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	return validateSchema(meta, t)
}

// applyTag processes a single struct field's fuzzdex tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, tag string) error {
	parts := strings.SplitN(tag, ",", 2)
	name := parts[0]
	modifier := ""
	if len(parts) == 2 {
		modifier = parts[1]
	}

	if name == "" {
		return fmt.Errorf("fuzzdex: empty column name on field %s", f.Name)
	}
	if f.Type.Kind() != reflect.String {
		return fmt.Errorf("fuzzdex: field %s must be a string to map column %q", f.Name, name)
	}

	switch modifier {
	case "key":
		if meta.keyIdx != -1 {
			return fmt.Errorf("fuzzdex: duplicate key tag on field %s", f.Name)
		}
		meta.keyIdx = idx
		meta.keyName = name
	case "":
		meta.fields = append(meta.fields, fieldMapping{structIdx: idx, name: name})
	default:
		return fmt.Errorf("fuzzdex: unknown modifier %q on field %s", modifier, f.Name)
	}
	return nil
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if meta.keyIdx == -1 {
		return nil, fmt.Errorf("fuzzdex: no field with `fuzzdex:\"...,key\"` tag in %s", t)
	}
	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("fuzzdex: no searchable columns tagged in %s", t)
	}
	seen := make(map[string]bool, len(meta.fields)+1)
	seen[meta.keyName] = true
	for _, f := range meta.fields {
		if seen[f.name] {
			return nil, fmt.Errorf("fuzzdex: duplicate column %q in %s", f.name, t)
		}
		seen[f.name] = true
	}
	return meta, nil
}

// columnNames returns the searchable column names in declaration order.
func (m *schemaMeta) columnNames() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.name
	}
	return out
}

// fromHit converts one untyped hit back to a typed struct using schema
// metadata. Columns absent from the hit leave their fields zero.
func (m *schemaMeta) fromHit(h Hit) any {
	pv := reflect.New(m.typ)
	v := pv.Elem()

	v.Field(m.keyIdx).SetString(h.Key)
	for _, f := range m.fields {
		if val, ok := h.Fields[f.name]; ok {
			v.Field(f.structIdx).SetString(val)
		}
	}

	if m.ptr {
		return pv.Interface()
	}
	return v.Interface()
}
