package db

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/fuzzdex/internal/domain/search/predicate"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/rank"
)

// relevanceAlias names the computed score column in rendered selects.
// Schema validation reserves the "__" prefix so user columns cannot
// collide with it.
const relevanceAlias = "__relevance"

var identPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// argList collects bind values in the order their placeholders appear in
// the rendered text. SQLite markers are purely positional, so every
// placeholder must be emitted through next at the point the text needs it.
type argList struct {
	dialect Dialect
	values  []any
}

func (a *argList) next(v any) string {
	a.values = append(a.values, v)
	return a.dialect.placeholder(len(a.values))
}

// BuildSelect renders the candidate select for the given dialect:
//
//	SELECT key, columns..., GREATEST(scores...) AS __relevance
//	FROM table WHERE <predicate> ORDER BY __relevance DESC, key ASC LIMIT n
//
// The search term and both thresholds travel as bind values, the term
// repeated once per usage site; only validated identifiers reach the SQL
// text itself.
func BuildSelect(d Dialect, q *SearchQuery) (string, []any, error) {
	if err := validateQuery(q); err != nil {
		return "", nil, &Error{Op: OpSelect, Err: err}
	}

	args := &argList{dialect: d}
	var b strings.Builder

	b.WriteString("SELECT ")
	b.WriteString(quoteIdent(q.Key))
	for _, c := range q.Columns {
		b.WriteString(", ")
		b.WriteString(quoteIdent(c))
	}
	b.WriteString(", ")
	b.WriteString(renderRelevance(d, q, args))
	b.WriteString(" AS ")
	b.WriteString(quoteIdent(relevanceAlias))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(q.Table))
	b.WriteString(" WHERE ")
	b.WriteString(renderWhere(d, q, args))
	b.WriteString(" ORDER BY ")
	b.WriteString(orderClause(q.Key))
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(args.next(q.Limit))
	}

	return b.String(), args.values, nil
}

// BuildOrder renders the ORDER BY clause of the candidate select on its
// own: relevance descending, then the key ascending as the deterministic
// tie-break.
func BuildOrder(q *SearchQuery) (string, error) {
	if err := validIdent("key", q.Key); err != nil {
		return "", &Error{Op: OpSelect, Err: err}
	}
	return orderClause(q.Key), nil
}

func orderClause(key string) string {
	return quoteIdent(relevanceAlias) + " DESC, " + quoteIdent(key) + " ASC"
}

// BuildCount renders the matching-row count for the same predicate as
// BuildSelect, without scoring or ordering.
func BuildCount(d Dialect, q *SearchQuery) (string, []any, error) {
	if err := validateQuery(q); err != nil {
		return "", nil, &Error{Op: OpCount, Err: err}
	}

	args := &argList{dialect: d}
	var b strings.Builder

	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(quoteIdent(q.Table))
	b.WriteString(" WHERE ")
	b.WriteString(renderWhere(d, q, args))

	return b.String(), args.values, nil
}

// renderRelevance emits the n-ary max over every score term. Each term
// coalesces to zero so a null column never poisons the comparison.
func renderRelevance(d Dialect, q *SearchQuery, args *argList) string {
	terms := q.Order.Terms()
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, renderScore(t, q.Term.String(), args))
	}
	// SQLite's MAX with a single argument is the aggregate, not the
	// scalar, so a lone score term is emitted bare.
	if len(parts) == 1 {
		return parts[0]
	}
	return d.greatest() + "(" + strings.Join(parts, ", ") + ")"
}

func renderScore(t rank.ScoreTerm, termValue string, args *argList) string {
	fn := "similarity"
	if t.Metric() == rank.WordSimilarity {
		fn = "word_similarity"
	}
	return fmt.Sprintf("COALESCE(%s(%s, %s), 0)", fn, args.next(termValue), quoteIdent(t.Field()))
}

// renderWhere emits the disjunction of per-field groups. In exact mode
// each group collapses to case-folded equality; otherwise the three
// primitives render in composed order, containment first.
func renderWhere(d Dialect, q *SearchQuery, args *argList) string {
	termValue := q.Term.String()
	groups := q.Predicate.Groups()
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if q.ExactOnly {
			parts = append(parts, renderExact(d, g.Field(), termValue, args))
			continue
		}
		leaves := g.Leaves()
		sub := make([]string, 0, len(leaves))
		for _, l := range leaves {
			sub = append(sub, renderLeaf(d, l, q, args))
		}
		parts = append(parts, "("+strings.Join(sub, " OR ")+")")
	}
	return strings.Join(parts, " OR ")
}

func renderLeaf(d Dialect, l predicate.Leaf, q *SearchQuery, args *argList) string {
	field := quoteIdent(l.Field())
	termValue := q.Term.String()
	switch l.Primitive() {
	case predicate.Contains:
		if d == DialectSQLite {
			return fmt.Sprintf("instr(casefold(COALESCE(%s, '')), %s) > 0", field, args.next(termValue))
		}
		return fmt.Sprintf("COALESCE(%s, '') ILIKE %s", field, args.next("%"+escapeLike(termValue)+"%"))
	case predicate.WordSimilarity:
		return fmt.Sprintf("COALESCE(word_similarity(%s, %s), 0) > %s",
			args.next(termValue), field, args.next(q.MinWordSimilarity))
	default:
		return fmt.Sprintf("COALESCE(similarity(%s, %s), 0) > %s",
			args.next(termValue), field, args.next(q.MinSimilarity))
	}
}

func renderExact(d Dialect, field, termValue string, args *argList) string {
	f := quoteIdent(field)
	if d == DialectSQLite {
		return fmt.Sprintf("casefold(COALESCE(%s, '')) = %s", f, args.next(termValue))
	}
	return fmt.Sprintf("LOWER(COALESCE(%s, '')) = %s", f, args.next(termValue))
}

// validateQuery re-checks every identifier the query names. The schema
// catalog validates them once already, but SearchQuery is a plain struct
// any caller can assemble, so the renderer does not trust it.
func validateQuery(q *SearchQuery) error {
	if err := validIdent("table", q.Table); err != nil {
		return err
	}
	if err := validIdent("key", q.Key); err != nil {
		return err
	}
	for _, c := range q.Columns {
		if err := validIdent("column", c); err != nil {
			return err
		}
	}
	for _, g := range q.Predicate.Groups() {
		if err := validIdent("field", g.Field()); err != nil {
			return err
		}
	}
	for _, t := range q.Order.Terms() {
		if err := validIdent("field", t.Field()); err != nil {
			return err
		}
	}
	if q.Predicate.IsEmpty() || q.Order.IsEmpty() {
		return ErrEmptyPredicate
	}
	if q.Term.IsEmpty() {
		return ErrEmptyTerm
	}
	return nil
}

func validIdent(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s name", ErrInvalidIdentifier, kind)
	}
	if strings.HasPrefix(name, "__") {
		return fmt.Errorf("%w: %s %q uses a reserved prefix", ErrInvalidIdentifier, kind, name)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, name)
	}
	return nil
}

// quoteIdent double-quotes a validated identifier. Validation restricts
// names to word characters already; quoting additionally shields reserved
// words such as "order" used as column names.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// escapeLike escapes LIKE wildcards so the term matches literally inside
// the %...% pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
