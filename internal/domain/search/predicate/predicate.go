package predicate

// Primitive is one of the storage-engine match functions a leaf names.
// The engine evaluates them; this package only describes which one applies
// to which field.
type Primitive string

// Match primitives, ordered from cheapest to most expensive.
const (
	// Contains is case-folded substring containment. It is always the first
	// leaf in a group so backends that short-circuit OR evaluation try it
	// before the trigram functions.
	Contains Primitive = "contains"
	// WordSimilarity compares the term against the field's best-matching
	// word extent and admits the row above the request's minWordSimilarity.
	WordSimilarity Primitive = "word_similarity"
	// Similarity compares the term against the entire field value and
	// admits the row above the request's minSimilarity.
	Similarity Primitive = "similarity"
)

// IsValid checks if the primitive is one of the supported values.
func (p Primitive) IsValid() bool {
	return p == Contains || p == WordSimilarity || p == Similarity
}

// Leaf applies one primitive to one field. The normalized term and the
// thresholds are not stored on the tree; they bind as query parameters
// when the expression is rendered.
type Leaf struct {
	field     string
	primitive Primitive
}

// Field returns the column identifier the leaf matches against.
func (l Leaf) Field() string { return l.field }

// Primitive returns the match function the leaf names.
func (l Leaf) Primitive() Primitive { return l.primitive }

// Group is the disjunction of all three primitives over a single field:
// the field matches when any one of them does.
type Group struct {
	field  string
	leaves []Leaf
}

// Field returns the column identifier shared by the group's leaves.
func (g Group) Field() string { return g.field }

// Leaves returns the group's leaves in evaluation order.
func (g Group) Leaves() []Leaf { return g.leaves }

// Expression is the candidate-selection tree: a disjunction of per-field
// groups. A row is a candidate when any primitive matches on any field.
// Expressions are immutable once composed.
type Expression struct {
	groups []Group
}

// Compose builds the candidate-selection tree for the given fields. Group
// order follows field order; leaf order within a group is Contains,
// WordSimilarity, Similarity. Field validation happens upstream, on the
// request and against the table allow-list, so Compose itself is total.
func Compose(fields []string) Expression {
	groups := make([]Group, 0, len(fields))
	for _, f := range fields {
		groups = append(groups, Group{
			field: f,
			leaves: []Leaf{
				{field: f, primitive: Contains},
				{field: f, primitive: WordSimilarity},
				{field: f, primitive: Similarity},
			},
		})
	}
	return Expression{groups: groups}
}

// Groups returns the per-field groups in field order.
func (e Expression) Groups() []Group { return e.groups }

// Fields returns the field identifiers in group order.
func (e Expression) Fields() []string {
	out := make([]string, len(e.groups))
	for i, g := range e.groups {
		out[i] = g.field
	}
	return out
}

// IsEmpty reports whether the expression has no groups.
func (e Expression) IsEmpty() bool { return len(e.groups) == 0 }
