package tofu

import (
	"strconv"
	"strings"
)

// Subquery is a query embedded inside another query, either as a condition
// value or as a projected column. Its variables are bound through the outer
// query's binder, so one variable namespace covers the whole statement.
type Subquery struct {
	query *Query
}

// Subquery wraps the query for embedding in an enclosing query.
func (q *Query) Subquery() *Subquery {
	return &Subquery{query: q}
}

// render renders the wrapped query as a parenthesized SELECT using the
// enclosing query's binder. A single projected field renders as
// SELECT VALUE so comparisons see a flat array.
func (s *Subquery) render(b *binder) (string, error) {
	q := s.query
	if q.err != nil {
		return "", q.err
	}
	if err := validateIdent(q.table); err != nil {
		return "", newTableError(q.table, err)
	}

	var sb strings.Builder
	sb.WriteString("(SELECT ")
	switch len(q.fields) {
	case 0:
		sb.WriteString("*")
	case 1:
		sb.WriteString("VALUE " + q.fields[0])
	default:
		sb.WriteString(strings.Join(q.fields, ", "))
	}
	sb.WriteString(" FROM " + q.table)

	where, err := renderWhere(q.conds, q.exprs, b)
	if err != nil {
		return "", err
	}
	if where != "" {
		sb.WriteString(" WHERE " + where)
	}

	if q.orderBy != "" {
		sb.WriteString(" ORDER BY " + q.orderBy)
	}
	if q.limit != nil {
		sb.WriteString(" LIMIT " + strconv.Itoa(*q.limit))
	}
	if q.offset != nil {
		sb.WriteString(" START " + strconv.Itoa(*q.offset))
	}
	sb.WriteString(")")
	return sb.String(), nil
}

// renderColumn lets a subquery serve as an annotation, projecting its
// result under an alias.
func (s *Subquery) renderColumn(alias string, b *binder) (string, error) {
	inner, err := s.render(b)
	if err != nil {
		return "", err
	}
	return inner + " AS " + alias, nil
}
