package tofu

import (
	"errors"
	"fmt"
)

// Common errors returned by the compiler.
var (
	// ErrEmptyTableName is returned when a query targets an empty table name.
	ErrEmptyTableName = errors.New("table name cannot be empty")

	// ErrInvalidIdentifier is returned when a field, table, or fetch-target
	// name fails identifier validation.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUnknownField is returned when a schema-bound query references a
	// field the model does not declare.
	ErrUnknownField = errors.New("field not in schema")

	// ErrUnknownLookup is returned when a condition carries a Lookup value
	// outside the defined set.
	ErrUnknownLookup = errors.New("unknown lookup")

	// ErrUnknownAggregation is returned when an annotation spec names an
	// aggregation function outside count/sum/avg/min/max.
	ErrUnknownAggregation = errors.New("unknown aggregation")

	// ErrLookupValue is returned when a value has the wrong shape for its
	// lookup (non-boolean for isnull, non-sequence for collection lookups).
	ErrLookupValue = errors.New("invalid value for lookup")

	// ErrIncompatibleQuery is returned when grouped compilation is combined
	// with vector or full-text search parameters.
	ErrIncompatibleQuery = errors.New("incompatible query")

	// ErrEmptyGroupedSelect is returned when grouped compilation has neither
	// group fields nor annotations to select.
	ErrEmptyGroupedSelect = errors.New("grouped query requires group fields or annotations")
)

// newIdentifierError wraps ErrInvalidIdentifier with the offending name.
func newIdentifierError(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
}

// newTableError wraps an identifier failure for a table name.
func newTableError(table string, err error) error {
	return fmt.Errorf("invalid table %q: %w", table, err)
}

// newFieldError wraps an identifier or schema failure for a field name.
func newFieldError(field string, err error) error {
	return fmt.Errorf("invalid field %q: %w", field, err)
}

// newUnknownFieldError wraps ErrUnknownField with the field and table.
func newUnknownFieldError(field, table string) error {
	return fmt.Errorf("%w: %q on table %q", ErrUnknownField, field, table)
}

// newLookupError wraps ErrUnknownLookup with the offending lookup.
func newLookupError(lookup Lookup) error {
	return fmt.Errorf("%w: %q", ErrUnknownLookup, lookup)
}

// newValueError wraps ErrLookupValue with the lookup and a shape description.
func newValueError(lookup Lookup, detail string) error {
	return fmt.Errorf("%w: %s requires %s", ErrLookupValue, lookup, detail)
}

// newFetchError wraps an identifier failure for a FETCH target.
func newFetchError(target string, err error) error {
	return fmt.Errorf("invalid FETCH target %q: %w", target, err)
}

// newAliasError wraps an identifier failure for an annotation alias.
func newAliasError(alias string, err error) error {
	return fmt.Errorf("invalid annotation alias %q: %w", alias, err)
}

// newDirectionError reports an invalid ORDER BY direction.
func newDirectionError(dir string) error {
	return fmt.Errorf("invalid direction %q, must be 'asc' or 'desc'", dir)
}

// newIncompatibleError wraps ErrIncompatibleQuery with the conflicting clause.
func newIncompatibleError(clause string) error {
	return fmt.Errorf("%w: %s cannot be combined with grouped compilation", ErrIncompatibleQuery, clause)
}

// newQueryError wraps a transport failure with the operation name.
func newQueryError(operation string, err error) error {
	return fmt.Errorf("%s query failed: %w", operation, err)
}
