// Package tofu provides a type-safe, schema-validated query compiler for
// SurrealDB.
//
// Tofu turns fluent, typed filter and projection calls into a parameterized
// SurrealQL statement plus a variable map. It uses reflection (via Sentinel)
// once at initialization, then builds queries from plain string operations
// validated against the model schema.
//
// # Quick Start
//
// Define your model with struct tags:
//
//	type User struct {
//	    ID       string    `surreal:"id"`
//	    Email    string    `surreal:"email" index:"unique"`
//	    Name     string    `surreal:"name"`
//	    Age      int       `surreal:"age"`
//	    JoinedAt time.Time `surreal:"joined_at"`
//	}
//
// Create a Tofu instance:
//
//	users, err := tofu.New[User]("users")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Build and compile queries:
//
//	compiled, err := users.Query().
//	    Where("age", tofu.GT, 30).
//	    OrderBy("name", "asc").
//	    Limit(10).
//	    Compile()
//	// compiled.Text      == "SELECT * FROM users WHERE age > $_f0 ORDER BY name ASC LIMIT 10;"
//	// compiled.Variables == map[string]any{"_f0": 30}
//
// Nested boolean logic, vector similarity, full-text search, geo filters,
// subqueries, and grouped aggregations all compile through the same
// builder. See Query for the full surface.
//
// # Features
//
//   - Closed lookup set covering comparisons, containment, and string matching
//   - Runtime schema validation against struct tags
//   - Named variable binding for injection safety
//   - AND/OR/NOT expression trees with arbitrary nesting
//   - K-nearest-neighbor vector search with projected distance
//   - Full-text match clauses with score and highlight annotations
//   - Geo distance filters and projections
//   - Subqueries sharing the outer variable namespace
//   - Grouped aggregations (count, sum, mean, min, max)
//   - DBML schema generation from struct tags
//   - Integration with capitan for structured logging
package tofu

import (
	"github.com/zoobzio/sentinel"
)

// Tofu provides a schema-bound query API for a specific model type.
// Each instance holds the Sentinel metadata and the field set for
// validating queries against the model.
type Tofu[T any] struct {
	tableName  string
	metadata   sentinel.Metadata
	schema     map[string]struct{}
	fieldNames []string
}

// New creates a Tofu instance for type T against the given table name.
// It performs type inspection via Sentinel and builds the field schema
// from `surreal` struct tags. All reflection happens once here, not on
// the query path.
func New[T any](tableName string) (*Tofu[T], error) {
	if tableName == "" {
		return nil, ErrEmptyTableName
	}
	if err := validateIdent(tableName); err != nil {
		return nil, newTableError(tableName, err)
	}

	// Register all tags we use
	sentinel.Tag("surreal")
	sentinel.Tag("type")
	sentinel.Tag("index")
	sentinel.Tag("analyzer")

	// Inspect type using Sentinel (cached after first call)
	metadata := sentinel.Inspect[T]()

	schema := make(map[string]struct{}, len(metadata.Fields)+1)
	names := make([]string, 0, len(metadata.Fields)+1)
	for _, f := range metadata.Fields {
		name := f.Tags["surreal"]
		if name == "" || name == "-" {
			continue
		}
		if err := validateIdent(name); err != nil {
			return nil, newFieldError(name, err)
		}
		if _, ok := schema[name]; ok {
			continue
		}
		schema[name] = struct{}{}
		names = append(names, name)
	}

	// Every record carries an id whether or not the struct declares one.
	if _, ok := schema["id"]; !ok {
		schema["id"] = struct{}{}
		names = append(names, "id")
	}

	return &Tofu[T]{
		tableName:  tableName,
		metadata:   metadata,
		schema:     schema,
		fieldNames: names,
	}, nil
}

// TableName returns the table name for this Tofu instance.
func (t *Tofu[T]) TableName() string {
	return t.tableName
}

// Metadata returns the Sentinel metadata for type T.
func (t *Tofu[T]) Metadata() sentinel.Metadata {
	return t.metadata
}

// FieldNames returns the schema field names in declaration order.
func (t *Tofu[T]) FieldNames() []string {
	out := make([]string, len(t.fieldNames))
	copy(out, t.fieldNames)
	return out
}

// Query starts a schema-bound query against the model's table. Every
// field referenced by the query is checked against the model's `surreal`
// tags at build time.
func (t *Tofu[T]) Query() *Query {
	q := NewQuery(t.tableName)
	q.schema = t.schema
	return q
}
