package queryir

import (
	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/schema"
)

// Query is a sealed interface over the two plan shapes:
//   - *EntityQuery: matching rows of one entity type
//   - *AggregateQuery: a single aggregate, optionally grouped
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate is a sealed interface over filter conditions.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// FieldRef names a storage column reachable from the queried entity.
type FieldRef struct {
	Path   string           // Join prefix; "" is the queried entity itself
	Entity model.EntityType // Entity type owning the column
	Column string           // Storage column name
	Kind   schema.FieldKind // Storage kind, used for value coercion
}

// Join is one to-one hop from Parent to the entity reached at Path.
//
// Example: for work_session, prefix "project.client" joins clients from the
// row reached at "project":
//
//	Join{Path: "project.client", Parent: "project", Relation: "client",
//	     Target: "client", Table: "clients",
//	     LocalColumn: "client_id", ForeignColumn: "id"}
type Join struct {
	Path          string
	Parent        string
	Relation      string
	Target        model.EntityType
	Table         string
	LocalColumn   string // Foreign key on the parent row
	ForeignColumn string // Key on the joined row
}

// OrderBy is one ordering term.
type OrderBy struct {
	Field FieldRef
	Desc  bool
}

// EntityQuery selects rows of one entity type.
//
// Semantics:
//
//	SELECT <columns of Table> FROM Table <joins> WHERE <filter>
//	ORDER BY <order> LIMIT <limit> OFFSET <offset>
//
// Columns are read from the queried entity only; joined entities exist to be
// filtered on.
type EntityQuery struct {
	Entity  model.EntityType
	Table   string
	Columns []string
	Joins   []Join
	Filter  And
	OrderBy []OrderBy
	Limit   *int
	Offset  *int
}

func (EntityQuery) queryNode() {}

// Aggregate is the aggregate expression. Field is nil for count(*).
type Aggregate struct {
	Function model.AggregationFunction
	Field    *FieldRef
}

// AggregateQuery computes one aggregate over the filtered rows, per group
// when GroupBy is non-empty.
//
// Semantics:
//
//	SELECT <group columns>, <aggregate> FROM Table <joins> WHERE <filter>
//	GROUP BY <group columns>
type AggregateQuery struct {
	Entity    model.EntityType
	Table     string
	Joins     []Join
	Filter    And
	Aggregate Aggregate
	GroupBy   []FieldRef
}

func (AggregateQuery) queryNode() {}

// CompareOp is a binary comparison operator.
type CompareOp string

const (
	OpEq  CompareOp = "="
	OpNe  CompareOp = "!="
	OpGt  CompareOp = ">"
	OpGte CompareOp = ">="
	OpLt  CompareOp = "<"
	OpLte CompareOp = "<="
)

// Compare is <field> <op> <value>. Value is never Null; the builder turns
// equality with null into a Null predicate.
type Compare struct {
	Field FieldRef
	Op    CompareOp
	Value ir.Scalar
}

func (Compare) predicateNode() {}

// In is list membership, or non-membership when Negated.
// An empty list matches nothing, negated it matches everything.
type In struct {
	Field   FieldRef
	Values  []ir.Scalar
	Negated bool
}

func (In) predicateNode() {}

// MatchMode selects substring, prefix, or suffix matching.
type MatchMode string

const (
	MatchContains MatchMode = "contains"
	MatchPrefix   MatchMode = "prefix"
	MatchSuffix   MatchMode = "suffix"
)

// Match is a case-insensitive text match. Value is literal text; backends
// must escape their own wildcard characters.
type Match struct {
	Field FieldRef
	Mode  MatchMode
	Value string
}

func (Match) predicateNode() {}

// Null is <field> IS NULL, or IS NOT NULL when Negated.
type Null struct {
	Field   FieldRef
	Negated bool
}

func (Null) predicateNode() {}

// HasTag is true when the tags array contains Value.
type HasTag struct {
	Field FieldRef
	Value ir.Scalar
}

func (HasTag) predicateNode() {}

// HasAnyTag is true when the tags array shares at least one element with
// Values. An empty list matches nothing.
type HasAnyTag struct {
	Field  FieldRef
	Values []ir.Scalar
}

func (HasAnyTag) predicateNode() {}

// And is a conjunction. Empty means always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
