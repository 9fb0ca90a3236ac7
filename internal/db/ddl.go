package db

import (
	"fmt"
	"strings"
)

// TableDDL is a fluent builder for the DDL of one searchable table: a
// text primary key plus text columns, with the trigram indexes that keep
// the fuzzy predicates off sequential scans.
type TableDDL struct {
	def TableDefinition
}

// NewTableDDL starts building the DDL for a table.
func NewTableDDL(name string) *TableDDL {
	return &TableDDL{def: TableDefinition{Name: name}}
}

// Key sets the primary key column.
func (b *TableDDL) Key(name string) *TableDDL {
	b.def.Key = name
	return b
}

// Text adds searchable text columns.
func (b *TableDDL) Text(names ...string) *TableDDL {
	b.def.Columns = append(b.def.Columns, names...)
	return b
}

// Build validates and returns the table definition.
func (b *TableDDL) Build() (*TableDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, &Error{Op: OpExec, Err: err}
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *TableDDL) MustBuild() *TableDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// TableDefinition is a validated table layout ready for rendering. The
// column set mirrors what schema.Table allows, so a table created from it
// can be registered in the catalog as-is.
type TableDefinition struct {
	Name    string
	Key     string
	Columns []string
}

// Validate checks that every identifier is renderable and the layout is
// well-formed.
func (t *TableDefinition) Validate() error {
	if err := validIdent("table", t.Name); err != nil {
		return err
	}
	if err := validIdent("key", t.Key); err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q needs at least one text column", t.Name)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if err := validIdent("column", c); err != nil {
			return err
		}
		if c == t.Key {
			return fmt.Errorf("key column %q cannot also be a text column", c)
		}
		if seen[c] {
			return fmt.Errorf("duplicate column name: %s", c)
		}
		seen[c] = true
	}
	return nil
}

// CreateSQL renders the CREATE TABLE statement. All columns are TEXT;
// fuzzy matching is only defined over strings.
func (t *TableDefinition) CreateSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quoteIdent(t.Name))
	b.WriteString(" (")
	b.WriteString(quoteIdent(t.Key))
	b.WriteString(" TEXT PRIMARY KEY")
	for _, c := range t.Columns {
		b.WriteString(", ")
		b.WriteString(quoteIdent(c))
		b.WriteString(" TEXT")
	}
	b.WriteString(")")
	return b.String()
}

// DropSQL renders the DROP TABLE statement.
func (t *TableDefinition) DropSQL() string {
	return "DROP TABLE IF EXISTS " + quoteIdent(t.Name)
}

// IndexSQL renders the trigram index statements, one per text column.
// Only Postgres gets any: SQLite evaluates the registered similarity
// functions at query time and has no trigram index to build.
func (t *TableDefinition) IndexSQL(d Dialect) []string {
	if d != DialectPostgres {
		return nil
	}
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s USING gin (%s gin_trgm_ops)",
			quoteIdent(t.Name+"_"+c+"_trgm"),
			quoteIdent(t.Name),
			quoteIdent(c),
		))
	}
	return out
}

// InsertSQL renders a single-row insert with dialect placeholders, the
// key first and then the text columns in declaration order.
func (t *TableDefinition) InsertSQL(d Dialect) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(t.Name))
	b.WriteString(" (")
	b.WriteString(quoteIdent(t.Key))
	for _, c := range t.Columns {
		b.WriteString(", ")
		b.WriteString(quoteIdent(c))
	}
	b.WriteString(") VALUES (")
	for i := 0; i < len(t.Columns)+1; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.placeholder(i + 1))
	}
	b.WriteString(")")
	return b.String()
}
