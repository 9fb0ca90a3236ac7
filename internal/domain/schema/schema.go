package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifiers end up embedded in generated query text (they cannot be
// bound as parameters), so the allowed alphabet is deliberately narrow.
var identRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// MaxColumns is the maximum number of searchable columns per table.
const MaxColumns = 64

// Table is the column allow-list for one searchable table (immutable
// value object). Only identifiers registered here may appear in a
// rendered query.
type Table struct {
	name    string
	key     string
	columns []string
}

func validateIdent(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s is required", kind)
	}
	if len(name) > 64 {
		return fmt.Errorf("%s too long (max 64)", kind)
	}
	if !identRegex.MatchString(name) {
		return fmt.Errorf("%s must be alphanumeric with underscores: %q", kind, name)
	}
	if strings.HasPrefix(name, "__") {
		// Double underscore is reserved for generated aliases in rendered
		// queries (e.g. the relevance column).
		return fmt.Errorf("%s uses the reserved __ prefix: %q", kind, name)
	}
	return nil
}

// New validates and creates a Table.
// Identifiers: ^[a-zA-Z0-9_]+$, 1-64 chars. Columns: unique, max 64,
// text-typed, not including the key column.
func New(name, key string, columns []string) (Table, error) {
	if err := validateIdent("table name", name); err != nil {
		return Table{}, err
	}
	if err := validateIdent("key column", key); err != nil {
		return Table{}, err
	}
	if len(columns) == 0 {
		return Table{}, fmt.Errorf("table %q needs at least one searchable column", name)
	}
	if len(columns) > MaxColumns {
		return Table{}, fmt.Errorf("too many columns (max %d)", MaxColumns)
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if err := validateIdent("column name", c); err != nil {
			return Table{}, err
		}
		if c == key {
			return Table{}, fmt.Errorf("key column %q cannot be a searchable column", key)
		}
		if seen[c] {
			return Table{}, fmt.Errorf("duplicate column name: %s", c)
		}
		seen[c] = true
	}

	return Table{name: name, key: key, columns: columns}, nil
}

// Name returns the table identifier.
func (t Table) Name() string { return t.name }

// Key returns the primary identifier column.
func (t Table) Key() string { return t.key }

// Columns returns the searchable column identifiers.
func (t Table) Columns() []string { return t.columns }

// HasColumn checks if a searchable column with the given name exists.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Catalog is the set of tables a deployment allows searching.
type Catalog struct {
	tables map[string]Table
	order  []string
}

// NewCatalog validates and creates a Catalog.
func NewCatalog(tables ...Table) (Catalog, error) {
	byName := make(map[string]Table, len(tables))
	order := make([]string, 0, len(tables))
	for _, t := range tables {
		if _, dup := byName[t.Name()]; dup {
			return Catalog{}, fmt.Errorf("duplicate table name: %s", t.Name())
		}
		byName[t.Name()] = t
		order = append(order, t.Name())
	}
	return Catalog{tables: byName, order: order}, nil
}

// Get looks up a table by name.
func (c Catalog) Get(name string) (Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Tables returns all tables in registration order.
func (c Catalog) Tables() []Table {
	out := make([]Table, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tables[name])
	}
	return out
}

// IsEmpty reports whether the catalog has no tables.
func (c Catalog) IsEmpty() bool { return len(c.tables) == 0 }
