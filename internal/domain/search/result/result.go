package result

// Match is a single candidate row with its relevance score.
type Match struct {
	key       string
	fields    map[string]string
	relevance float64
}

// New creates a match. The key is the row's primary identifier, fields
// holds the searched column values as returned by the store, relevance is
// the maximum similarity signal found across fields and metrics.
func New(key string, fields map[string]string, relevance float64) Match {
	return Match{key: key, fields: fields, relevance: relevance}
}

// Key returns the row identifier.
func (m Match) Key() string { return m.key }

// Fields returns the searched column values.
func (m Match) Fields() map[string]string { return m.fields }

// Field returns one column value, or "" when the store returned null.
func (m Match) Field(name string) string { return m.fields[name] }

// Relevance returns the ranking score in [0,1].
func (m Match) Relevance() float64 { return m.relevance }

// Set is an ordered result page plus the total candidate count.
type Set struct {
	total   int
	matches []Match
}

// NewSet creates a result set. Matches are expected to already be in
// descending relevance order.
func NewSet(total int, matches []Match) Set {
	return Set{total: total, matches: matches}
}

// Total returns the number of candidates admitted by the predicate,
// independent of the page size.
func (s Set) Total() int { return s.total }

// Matches returns the ordered result page.
func (s Set) Matches() []Match { return s.matches }

// IsEmpty reports whether the page has no matches.
func (s Set) IsEmpty() bool { return len(s.matches) == 0 }
