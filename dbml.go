package tofu

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/sentinel"
)

// DBML builds a DBML project describing the model's table from its struct
// tags, for schema documentation and tooling.
func (t *Tofu[T]) DBML() (*dbml.Project, error) {
	return buildDBMLFromStruct(t.metadata, t.tableName)
}

// buildDBMLFromStruct creates a DBML project from a struct's Sentinel
// metadata, converting surreal, type, and index tags into a schema.
func buildDBMLFromStruct(metadata sentinel.Metadata, tableName string) (*dbml.Project, error) {
	project := dbml.NewProject(tableName).
		WithDatabaseType("SurrealDB")

	table := dbml.NewTable(tableName)

	// Track which columns are part of indexes
	indexedColumns := make(map[string]string) // column name -> index name

	for _, field := range metadata.Fields {
		name := field.Tags["surreal"]
		if name == "" || name == "-" {
			continue
		}

		// Explicit type tag wins over the inferred type
		fieldType := field.Tags["type"]
		if fieldType == "" {
			fieldType = inferSurrealType(field.Type)
		}

		col := dbml.NewColumn(name, fieldType)
		switch {
		case name == "id":
			col.WithPrimaryKey()
		case field.Tags["index"] == "unique":
			col.WithUnique()
			col.WithNull()
		default:
			// SurrealDB fields are optional unless the schema says otherwise
			col.WithNull()
		}
		table.AddColumn(col)

		if indexName, ok := field.Tags["index"]; ok && indexName != "" && indexName != "unique" {
			indexedColumns[name] = indexName
		}
	}

	for columnName, indexName := range indexedColumns {
		index := dbml.NewIndex(columnName).
			WithName(indexName)
		table.AddIndex(index)
	}

	project.AddTable(table)

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("generated DBML is invalid: %w", err)
	}

	return project, nil
}

// inferSurrealType maps Go types to default SurrealDB types.
func inferSurrealType(goType string) string {
	goType = strings.TrimPrefix(goType, "*")

	if strings.HasPrefix(goType, "[]") {
		elementType := strings.TrimPrefix(goType, "[]")

		// Special case: []byte is bytes, not an array
		if elementType == "byte" || elementType == "uint8" {
			return "bytes"
		}
		return "array"
	}

	switch goType {
	case "string":
		return "string"
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return "int"
	case "float32", "float64":
		return "float"
	case "bool":
		return "bool"
	case "time.Time":
		return "datetime"
	default:
		// Maps and custom struct types store as nested objects
		return "object"
	}
}
