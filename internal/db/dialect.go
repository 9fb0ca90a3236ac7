package db

import "fmt"

// Dialect selects the SQL flavor the renderer emits. The query shape is
// identical across dialects; only placeholders, the n-ary max function
// and the containment primitive differ.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) IsValid() bool {
	switch d {
	case DialectPostgres, DialectSQLite:
		return true
	}
	return false
}

func (d Dialect) String() string {
	return string(d)
}

// placeholder renders the n-th bind marker (1-based).
func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// greatest is the n-ary maximum function. SQLite's MAX doubles as a
// scalar function when given more than one argument.
func (d Dialect) greatest() string {
	if d == DialectPostgres {
		return "GREATEST"
	}
	return "MAX"
}
