package tofu

import "fmt"

// ConditionSpec represents a filter condition in a serializable format.
// This can be used to build queries from JSON or other external sources
// (e.g., LLM-generated).
//
// ConditionSpec can represent either a simple condition or a condition group:
//
// Simple condition:
//
//	{"field": "age", "lookup": "gte", "value": 18}
//
// Negated condition:
//
//	{"field": "status", "lookup": "exact", "value": "banned", "not": true}
//
// Condition group (AND/OR):
//
//	{
//	  "logic": "OR",
//	  "group": [
//	    {"field": "status", "lookup": "exact", "value": "active"},
//	    {"field": "status", "lookup": "exact", "value": "pending"}
//	  ]
//	}
type ConditionSpec struct {
	// Simple condition fields
	Field  string `json:"field,omitempty"`
	Lookup string `json:"lookup,omitempty"`
	Value  any    `json:"value,omitempty"`

	// Not negates the condition or group.
	Not bool `json:"not,omitempty"`

	// Condition group fields (for AND/OR grouping)
	Logic string          `json:"logic,omitempty"` // "AND" or "OR"
	Group []ConditionSpec `json:"group,omitempty"` // Nested conditions
}

// IsGroup returns true if this ConditionSpec represents a condition group.
func (c ConditionSpec) IsGroup() bool {
	return c.Logic != "" && len(c.Group) > 0
}

// expr converts the spec into an expression tree node.
func (c ConditionSpec) expr() Expr {
	var e Expr
	if c.IsGroup() {
		children := make([]Expr, 0, len(c.Group))
		for _, child := range c.Group {
			children = append(children, child.expr())
		}
		if c.Logic == "OR" {
			e = Or(children...)
		} else {
			e = And(children...)
		}
	} else {
		lookup := Lookup(c.Lookup)
		if c.Lookup == "" {
			lookup = Exact
		}
		e = C(c.Field, lookup, c.Value)
	}
	if c.Not {
		e = Not(e)
	}
	return e
}

// OrderBySpec represents an ORDER BY clause in a serializable format.
//
//	{"field": "name", "direction": "asc"}
type OrderBySpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// AnnotationSpec represents an aggregation annotation in a serializable
// format.
//
//	{"alias": "total", "func": "sum", "field": "amount"}
type AnnotationSpec struct {
	Alias string `json:"alias"`
	Func  string `json:"func"`            // "count", "sum", "avg", "min", "max"
	Field string `json:"field,omitempty"` // Field to aggregate (empty for count)
}

// QuerySpec represents a SELECT query in a serializable format.
// This can be unmarshaled from JSON to build queries programmatically.
//
// Example JSON:
//
//	{
//	  "fields": ["id", "email", "name"],
//	  "where": [
//	    {"field": "age", "lookup": "gte", "value": 18},
//	    {"field": "status", "lookup": "exact", "value": "active"}
//	  ],
//	  "order_by": [{"field": "name", "direction": "asc"}],
//	  "limit": 10,
//	  "offset": 20,
//	  "fetch": ["author"]
//	}
type QuerySpec struct {
	Fields   []string         `json:"fields,omitempty"`
	Where    []ConditionSpec  `json:"where,omitempty"`
	OrderBy  []OrderBySpec    `json:"order_by,omitempty"`
	GroupBy  []string         `json:"group_by,omitempty"`
	Annotate []AnnotationSpec `json:"annotate,omitempty"`
	Limit    *int             `json:"limit,omitempty"`
	Offset   *int             `json:"offset,omitempty"`
	Fetch    []string         `json:"fetch,omitempty"`
}

// Build constructs a query against table from the spec. The result carries
// any validation error to Compile the same way hand-built queries do.
func (s QuerySpec) Build(table string) *Query {
	q := NewQuery(table)
	return s.apply(q)
}

func (s QuerySpec) apply(q *Query) *Query {
	if len(s.Fields) > 0 {
		q = q.Fields(s.Fields...)
	}
	for _, c := range s.Where {
		if c.IsGroup() || c.Not {
			q = q.addExpr(c.expr())
			continue
		}
		lookup := Lookup(c.Lookup)
		if c.Lookup == "" {
			lookup = Exact
		}
		q = q.Where(c.Field, lookup, c.Value)
	}
	if len(s.GroupBy) > 0 {
		q = q.GroupBy(s.GroupBy...)
	}
	for _, a := range s.Annotate {
		var ann Annotation
		switch a.Func {
		case "count":
			ann = Count()
		case "sum":
			ann = Sum(a.Field)
		case "avg":
			ann = Avg(a.Field)
		case "min":
			ann = Min(a.Field)
		case "max":
			ann = Max(a.Field)
		default:
			return q.fail(fmt.Errorf("%w: %q", ErrUnknownAggregation, a.Func))
		}
		q = q.Annotate(a.Alias, ann)
	}
	for _, o := range s.OrderBy {
		q = q.OrderBy(o.Field, o.Direction)
	}
	if s.Limit != nil {
		q = q.Limit(*s.Limit)
	}
	if s.Offset != nil {
		q = q.Offset(*s.Offset)
	}
	if len(s.Fetch) > 0 {
		q = q.Fetch(s.Fetch...)
	}
	return q
}

// QueryFromSpec constructs a schema-bound query from the spec. Every field
// the spec references is validated against the model schema.
func (t *Tofu[T]) QueryFromSpec(spec QuerySpec) *Query {
	return spec.apply(t.Query())
}
