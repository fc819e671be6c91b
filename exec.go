package tofu

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Transport submits a compiled statement to SurrealDB and returns the
// result rows. Implementations wrap whatever client the application uses
// (HTTP, WebSocket, embedded).
type Transport interface {
	Query(ctx context.Context, text string, variables map[string]any) ([]map[string]any, error)
}

// Exec compiles the query and submits it through the transport, with
// lifecycle events emitted via capitan.
func (q *Query) Exec(ctx context.Context, tr Transport) ([]map[string]any, error) {
	operation := "SELECT"
	if q.usesGroupedPath() {
		operation = "GROUP"
	}

	compiled, err := q.Compile()
	if err != nil {
		capitan.Error(ctx, QueryFailed,
			TableKey.Field(q.table),
			OperationKey.Field(operation),
			ErrorKey.Field(err.Error()),
		)
		return nil, err
	}

	capitan.Debug(ctx, QueryCompiled,
		TableKey.Field(q.table),
		OperationKey.Field(operation),
		QueryKey.Field(compiled.Text),
		VariableCountKey.Field(len(compiled.Variables)),
	)

	capitan.Debug(ctx, QueryStarted,
		TableKey.Field(q.table),
		OperationKey.Field(operation),
		QueryKey.Field(compiled.Text),
		VariableCountKey.Field(len(compiled.Variables)),
	)

	startTime := time.Now()

	rows, err := tr.Query(ctx, compiled.Text, compiled.Variables)
	if err != nil {
		durationMs := time.Since(startTime).Milliseconds()
		capitan.Error(ctx, QueryFailed,
			TableKey.Field(q.table),
			OperationKey.Field(operation),
			DurationMsKey.Field(durationMs),
			ErrorKey.Field(err.Error()),
		)
		return nil, newQueryError(operation, err)
	}

	durationMs := time.Since(startTime).Milliseconds()
	capitan.Info(ctx, QueryCompleted,
		TableKey.Field(q.table),
		OperationKey.Field(operation),
		DurationMsKey.Field(durationMs),
		RowsReturnedKey.Field(len(rows)),
	)

	return rows, nil
}
