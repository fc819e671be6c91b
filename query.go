package tofu

import (
	"strconv"
	"strings"
)

// CompiledQuery is a ready-to-submit statement: parameterized text plus
// the variable map that accompanies it. Values never appear in Text.
type CompiledQuery struct {
	Text      string
	Variables map[string]any
}

type annotationEntry struct {
	alias string
	ann   Annotation
}

type knnClause struct {
	field  string
	vector []float64
	k      int
	ef     int
}

type searchClause struct {
	field string
	text  string
}

type geoClause struct {
	field       string
	point       Point
	maxDistance float64
}

// Query accumulates filters, projections, and modifiers, then compiles
// them into a SurrealQL SELECT. Builder methods record the first error and
// return the receiver, so calls chain and the error surfaces at Compile.
//
// A Query is not safe for concurrent use. Compile may be called repeatedly;
// each call binds variables from scratch and produces identical output.
type Query struct {
	table       string
	schema      map[string]struct{}
	fields      []string
	conds       []Cond
	exprs       []Expr
	groupBy     []string
	annotations []annotationEntry
	orderBy     string
	limit       *int
	offset      *int
	knn         *knnClause
	searches    []searchClause
	geo         *geoClause
	fetch       []string
	related     []string
	err         error
}

// NewQuery starts a query against the named table with no schema binding.
// Field names are validated as identifiers only. Use Tofu.Query for
// schema-checked queries.
func NewQuery(table string) *Query {
	q := &Query{table: table}
	if table == "" {
		q.err = ErrEmptyTableName
		return q
	}
	if err := validateIdent(table); err != nil {
		q.err = newTableError(table, err)
	}
	return q
}

// fail records the first builder error and returns the receiver so
// chaining continues.
func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// checkField validates a field name and, when the query is schema-bound,
// checks that the model declares it.
func (q *Query) checkField(field string) error {
	if err := validateIdent(field); err != nil {
		return newFieldError(field, err)
	}
	if q.schema != nil {
		if _, ok := q.schema[field]; !ok {
			return newUnknownFieldError(field, q.table)
		}
	}
	return nil
}

// Fields limits the projection to the named fields. Without it the query
// selects *.
func (q *Query) Fields(fields ...string) *Query {
	if q.err != nil {
		return q
	}
	for _, f := range fields {
		if err := q.checkField(f); err != nil {
			return q.fail(err)
		}
	}
	q.fields = append(q.fields, fields...)
	return q
}

// Where adds a condition joined to all other top-level conditions with AND.
func (q *Query) Where(field string, lookup Lookup, value any) *Query {
	if q.err != nil {
		return q
	}
	if err := q.checkField(field); err != nil {
		return q.fail(err)
	}
	if !knownLookup(lookup) {
		return q.fail(newLookupError(lookup))
	}
	q.conds = append(q.conds, Cond{Field: field, Lookup: lookup, Value: value})
	return q
}

// WhereNull adds an IS NULL condition on field.
func (q *Query) WhereNull(field string) *Query {
	return q.Where(field, IsNull, true)
}

// WhereNotNull adds an IS NOT NULL condition on field.
func (q *Query) WhereNotNull(field string) *Query {
	return q.Where(field, IsNull, false)
}

// addExpr validates every field an expression tree references, then
// appends it. Trees render after the flat Where conditions.
func (q *Query) addExpr(e Expr) *Query {
	if q.err != nil {
		return q
	}
	for _, f := range collectFields(e, nil) {
		if err := q.checkField(f); err != nil {
			return q.fail(err)
		}
	}
	q.exprs = append(q.exprs, e)
	return q
}

// WhereAnd adds an AND group of expressions built with C, And, Or, and Not.
func (q *Query) WhereAnd(exprs ...Expr) *Query {
	return q.addExpr(And(exprs...))
}

// WhereOr adds an OR group of expressions built with C, And, Or, and Not.
func (q *Query) WhereOr(exprs ...Expr) *Query {
	return q.addExpr(Or(exprs...))
}

// WhereNot adds a negated expression.
func (q *Query) WhereNot(expr Expr) *Query {
	return q.addExpr(Not(expr))
}

// GroupBy switches the query to grouped compilation over the named fields.
// Grouped queries select only the group fields and annotations.
func (q *Query) GroupBy(fields ...string) *Query {
	if q.err != nil {
		return q
	}
	for _, f := range fields {
		if err := q.checkField(f); err != nil {
			return q.fail(err)
		}
	}
	q.groupBy = append(q.groupBy, fields...)
	return q
}

// Annotate attaches a computed column under alias. Annotating the same
// alias twice replaces the earlier annotation. An aggregation annotation
// switches the query to grouped compilation.
func (q *Query) Annotate(alias string, ann Annotation) *Query {
	if q.err != nil {
		return q
	}
	if err := validateIdent(alias); err != nil {
		return q.fail(newAliasError(alias, err))
	}
	for i := range q.annotations {
		if q.annotations[i].alias == alias {
			q.annotations[i].ann = ann
			return q
		}
	}
	q.annotations = append(q.annotations, annotationEntry{alias: alias, ann: ann})
	return q
}

// OrderBy adds a sort field. Direction is "asc" or "desc", case-insensitive.
// Repeated calls append further sort fields.
func (q *Query) OrderBy(field, direction string) *Query {
	if q.err != nil {
		return q
	}
	if err := q.checkField(field); err != nil {
		return q.fail(err)
	}
	d, err := validateDirection(direction)
	if err != nil {
		return q.fail(err)
	}
	clause := field + " " + d
	if q.orderBy != "" {
		q.orderBy += ", " + clause
	} else {
		q.orderBy = clause
	}
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	if q.err != nil {
		return q
	}
	q.limit = &n
	return q
}

// Offset skips the first n rows, rendered as START.
func (q *Query) Offset(n int) *Query {
	if q.err != nil {
		return q
	}
	q.offset = &n
	return q
}

// SimilarTo orders the query by vector similarity between field and vector,
// keeping the k nearest rows. The distance is projected as _knn_distance
// and, absent an explicit OrderBy, the query sorts by it.
func (q *Query) SimilarTo(field string, vector []float64, k int) *Query {
	return q.SimilarToEF(field, vector, k, 0)
}

// SimilarToEF is SimilarTo with an explicit HNSW search effort parameter.
func (q *Query) SimilarToEF(field string, vector []float64, k, ef int) *Query {
	if q.err != nil {
		return q
	}
	if err := q.checkField(field); err != nil {
		return q.fail(err)
	}
	q.knn = &knnClause{field: field, vector: vector, k: k, ef: ef}
	return q
}

// Search adds a full-text match on field. Each call is assigned the next
// match reference, starting at 0, for use with SearchScore and
// SearchHighlight annotations.
func (q *Query) Search(field, text string) *Query {
	if q.err != nil {
		return q
	}
	if err := q.checkField(field); err != nil {
		return q.fail(err)
	}
	q.searches = append(q.searches, searchClause{field: field, text: text})
	return q
}

// Nearby keeps rows whose geometry field lies within maxDistance meters
// of point.
func (q *Query) Nearby(field string, point Point, maxDistance float64) *Query {
	if q.err != nil {
		return q
	}
	if err := q.checkField(field); err != nil {
		return q.fail(err)
	}
	q.geo = &geoClause{field: field, point: point, maxDistance: maxDistance}
	return q
}

// Fetch resolves the named record links in place of their ids.
func (q *Query) Fetch(targets ...string) *Query {
	if q.err != nil {
		return q
	}
	for _, t := range targets {
		if err := validateIdent(t); err != nil {
			return q.fail(newFetchError(t, err))
		}
	}
	q.fetch = append(q.fetch, targets...)
	return q
}

// SelectRelated resolves related records alongside the base fetch targets.
// It renders into the same FETCH clause, deduplicated.
func (q *Query) SelectRelated(targets ...string) *Query {
	if q.err != nil {
		return q
	}
	for _, t := range targets {
		if err := validateIdent(t); err != nil {
			return q.fail(newFetchError(t, err))
		}
	}
	q.related = append(q.related, targets...)
	return q
}

// Compile renders the query. Queries with group fields, aggregation
// annotations, or subquery annotations take the grouped path; everything
// else renders a plain SELECT. Compiling does not consume the query.
func (q *Query) Compile() (CompiledQuery, error) {
	if q.err != nil {
		return CompiledQuery{}, q.err
	}
	if err := validateIdent(q.table); err != nil {
		return CompiledQuery{}, newTableError(q.table, err)
	}
	if q.usesGroupedPath() {
		return q.compileGrouped()
	}
	return q.compileSelect()
}

// CompileGrouped forces the grouped rendering path even without group
// fields, producing a GROUP ALL statement over the annotations.
func (q *Query) CompileGrouped() (CompiledQuery, error) {
	if q.err != nil {
		return CompiledQuery{}, q.err
	}
	if err := validateIdent(q.table); err != nil {
		return CompiledQuery{}, newTableError(q.table, err)
	}
	return q.compileGrouped()
}

// usesGroupedPath reports whether the query compiles through the grouped
// form: group fields, or an annotation that reduces rows (aggregations)
// or draws binder capacity in the projection (subqueries).
func (q *Query) usesGroupedPath() bool {
	if len(q.groupBy) > 0 {
		return true
	}
	for _, e := range q.annotations {
		switch e.ann.(type) {
		case aggregation, *Subquery:
			return true
		}
	}
	return false
}

// renderWhere renders flat conditions followed by expression trees, joined
// with AND. Flat conditions bind first so their variables take the lowest
// indices. Subqueries share the same binder.
func renderWhere(conds []Cond, exprs []Expr, b *binder) (string, error) {
	parts := make([]string, 0, len(conds)+len(exprs))
	for _, c := range conds {
		s, err := renderCond(c, b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	for _, e := range exprs {
		s, err := renderExpr(e, b)
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " AND "), nil
}

func (q *Query) compileSelect() (CompiledQuery, error) {
	b := newBinder()

	// The WHERE clause binds before the projection so condition variables
	// take the lowest indices regardless of annotation content.
	where, err := renderWhere(q.conds, q.exprs, b)
	if err != nil {
		return CompiledQuery{}, err
	}
	whereParts := []string{}
	if where != "" {
		whereParts = append(whereParts, where)
	}

	if q.knn != nil {
		op := "<|" + strconv.Itoa(q.knn.k) + "|>"
		if q.knn.ef > 0 {
			op = "<|" + strconv.Itoa(q.knn.k) + "," + strconv.Itoa(q.knn.ef) + "|>"
		}
		b.put("_knn_vec", q.knn.vector)
		whereParts = append(whereParts, q.knn.field+" "+op+" $_knn_vec")
	}

	for i, s := range q.searches {
		name := "_s" + strconv.Itoa(i)
		b.put(name, s.text)
		whereParts = append(whereParts, s.field+" @"+strconv.Itoa(i)+"@ $"+name)
	}

	if q.geo != nil {
		b.put("_geo_dist", q.geo.maxDistance)
		whereParts = append(whereParts,
			"geo::distance("+q.geo.field+", "+q.geo.point.surql()+") <= $_geo_dist")
	}

	columns := make([]string, 0, len(q.fields)+len(q.annotations)+1)
	if len(q.fields) == 0 {
		columns = append(columns, "*")
	} else {
		columns = append(columns, q.fields...)
	}
	if q.knn != nil {
		columns = append(columns, "vector::distance::knn() AS _knn_distance")
	}
	for _, e := range q.annotations {
		col, err := e.ann.renderColumn(e.alias, b)
		if err != nil {
			return CompiledQuery{}, err
		}
		columns = append(columns, col)
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + strings.Join(columns, ", ") + " FROM " + q.table)
	if len(whereParts) > 0 {
		sb.WriteString(" WHERE " + strings.Join(whereParts, " AND "))
	}
	switch {
	case q.orderBy != "":
		sb.WriteString(" ORDER BY " + q.orderBy)
	case q.knn != nil:
		sb.WriteString(" ORDER BY _knn_distance")
	}
	if q.limit != nil {
		sb.WriteString(" LIMIT " + strconv.Itoa(*q.limit))
	}
	if q.offset != nil {
		sb.WriteString(" START " + strconv.Itoa(*q.offset))
	}
	if targets := dedup(append(append([]string{}, q.fetch...), q.related...)); len(targets) > 0 {
		sb.WriteString(" FETCH " + strings.Join(targets, ", "))
	}
	sb.WriteString(";")

	return CompiledQuery{Text: sb.String(), Variables: b.vars}, nil
}

func (q *Query) compileGrouped() (CompiledQuery, error) {
	if q.knn != nil {
		return CompiledQuery{}, newIncompatibleError("vector search")
	}
	if len(q.searches) > 0 {
		return CompiledQuery{}, newIncompatibleError("full-text search")
	}

	b := newBinder()

	// WHERE renders first to seed the binder even though it appears after
	// the projection in the statement.
	where, err := renderWhere(q.conds, q.exprs, b)
	if err != nil {
		return CompiledQuery{}, err
	}
	whereParts := []string{}
	if where != "" {
		whereParts = append(whereParts, where)
	}
	if q.geo != nil {
		b.put("_geo_dist", q.geo.maxDistance)
		whereParts = append(whereParts,
			"geo::distance("+q.geo.field+", "+q.geo.point.surql()+") <= $_geo_dist")
	}

	columns := make([]string, 0, len(q.groupBy)+len(q.annotations))
	columns = append(columns, q.groupBy...)
	for _, e := range q.annotations {
		col, err := e.ann.renderColumn(e.alias, b)
		if err != nil {
			return CompiledQuery{}, err
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return CompiledQuery{}, ErrEmptyGroupedSelect
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + strings.Join(columns, ", ") + " FROM " + q.table)
	if len(whereParts) > 0 {
		sb.WriteString(" WHERE " + strings.Join(whereParts, " AND "))
	}
	if len(q.groupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(q.groupBy, ", "))
	} else {
		sb.WriteString(" GROUP ALL")
	}
	sb.WriteString(";")

	return CompiledQuery{Text: sb.String(), Variables: b.vars}, nil
}

// dedup removes duplicates preserving first-seen order.
func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
