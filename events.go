package tofu

import "github.com/zoobzio/capitan"

// Query lifecycle signals.
var (
	// QueryCompiled is emitted when a query compiles successfully.
	// Fields: TableKey, OperationKey, QueryKey.
	QueryCompiled = capitan.NewSignal("db.query.compiled", "Query compiled to SurrealQL")

	// QueryStarted is emitted when a compiled query begins execution.
	// Fields: TableKey, OperationKey, QueryKey.
	QueryStarted = capitan.NewSignal("db.query.started", "Query execution started")

	// QueryCompleted is emitted when a query completes successfully.
	// Fields: TableKey, OperationKey, DurationMsKey, RowsReturnedKey.
	QueryCompleted = capitan.NewSignal("db.query.completed", "Query completed successfully")

	// QueryFailed is emitted when compilation or execution fails.
	// Fields: TableKey, OperationKey, DurationMsKey, ErrorKey.
	QueryFailed = capitan.NewSignal("db.query.failed", "Query failed with error")
)

// Event field keys for query operations.
var (
	// TableKey identifies the table being queried.
	TableKey = capitan.NewStringKey("table")

	// OperationKey identifies the kind of statement (SELECT, GROUP).
	OperationKey = capitan.NewStringKey("operation")

	// QueryKey contains the rendered SurrealQL text. Variable values never
	// appear in it.
	QueryKey = capitan.NewStringKey("query")

	// VariableCountKey contains the number of bound variables.
	VariableCountKey = capitan.NewIntKey("variable_count")

	// DurationMsKey contains the execution duration in milliseconds.
	DurationMsKey = capitan.NewInt64Key("duration_ms")

	// RowsReturnedKey contains the number of rows returned.
	RowsReturnedKey = capitan.NewIntKey("rows_returned")

	// ErrorKey contains the error message when a query fails.
	ErrorKey = capitan.NewStringKey("error")
)
