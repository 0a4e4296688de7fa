package models

// Column identifies a field a Selection can filter or order on. Storage
// backends map these to their own column names.
type Column int

const (
	ColumnStartTime Column = iota
	ColumnEndTime
	ColumnInterested
	ColumnRegistration
)

func (c Column) String() string {
	switch c {
	case ColumnStartTime:
		return "start_time"
	case ColumnEndTime:
		return "end_time"
	case ColumnInterested:
		return "interested"
	case ColumnRegistration:
		return "registration"
	default:
		return "unknown"
	}
}

// PredicateKind is the comparison a Predicate performs
type PredicateKind int

const (
	Equals PredicateKind = iota
	Like                 // SQL LIKE pattern, % and _ wildcards
	IsNull
)

// Predicate is a single comparison against one column. Value is ignored for IsNull.
type Predicate struct {
	Kind   PredicateKind
	Column Column
	Value  any
}

// Selection describes which observations to fetch: a row qualifies when at
// least one AnyOf predicate holds (or AnyOf is empty) and every AllOf
// predicate holds. Rows are returned ascending by OrderBy.
type Selection struct {
	AnyOf   []Predicate
	AllOf   []Predicate
	OrderBy Column
}
