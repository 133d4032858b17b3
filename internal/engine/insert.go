package engine

import (
	"log/slog"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/errors"
)

// InsertRow coerces the positional values to the table schema, appends the row
// and extends every index on it. It returns the assigned row position.
func (e *Engine) InsertRow(table string, values []any) (int, error) {
	meta, err := e.meta.Load(table)
	if err != nil {
		return 0, err
	}

	if len(values) != len(meta.Columns) {
		return 0, errors.NewColumnCountMismatch(table, len(meta.Columns), len(values))
	}

	// 1. Build the typed row; nothing touches disk until every value coerces
	row := make(data.Row, len(meta.Columns))
	for i, col := range meta.Columns {
		v, err := coerce(table, col, values[i])
		if err != nil {
			return 0, err
		}
		row[col.Name] = v
	}

	// 2. Append (bumps the row count)
	position, err := e.rows.Append(table, row)
	if err != nil {
		return 0, err
	}

	// 3. Update indexes; on failure undo everything done so far
	for i, col := range meta.Indexed {
		val, ok := row[col]
		if !ok || val == nil {
			continue
		}
		if err := e.indexes.UpdateOnInsert(table, col, val, position); err != nil {
			e.rollbackInsert(table, meta.Indexed[:i], col, row, position)
			return 0, err
		}
	}

	e.logger.Info("row inserted",
		slog.String("table", table),
		slog.Int("position", position),
	)
	e.notify(Event{Type: EventInsertRow, OpID: newOpID(), Table: table, Data: position})
	return position, nil
}

// rollbackInsert reverts the index entries written for the row at position,
// then removes the row itself. An updated index that cannot be reverted is
// dropped so the next use rebuilds it from the remaining rows.
func (e *Engine) rollbackInsert(table string, updated []string, failed string, row data.Row, position int) {
	for _, col := range updated {
		val, ok := row[col]
		if !ok || val == nil {
			continue
		}
		if err := e.indexes.Revert(table, col, val, position); err != nil {
			e.logger.Warn("failed to revert index entry, dropping index",
				slog.String("table", table),
				slog.String("column", col),
				slog.Any("error", err),
			)
			if derr := e.indexes.Drop(table, col); derr != nil {
				e.logger.Error("failed to drop inconsistent index",
					slog.String("table", table),
					slog.String("column", col),
					slog.Any("error", derr),
				)
			}
		}
	}

	// The failed update may still have built the index from a scan that saw the row
	if val, ok := row[failed]; ok && val != nil {
		_ = e.indexes.Revert(table, failed, val, position)
	}

	if err := e.rows.Rollback(table, position); err != nil {
		e.logger.Error("failed to roll back inserted row",
			slog.String("table", table),
			slog.Int("position", position),
			slog.Any("error", err),
		)
	}
}
