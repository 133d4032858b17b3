package engine

import (
	"log/slog"

	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/domain/schema"
)

// DefineRequest describes a new table
type DefineRequest struct {
	Name    string
	Columns []schema.Column // order defines positional correspondence for inserts
	Indexes []string
}

// TableInfo reports a created table
type TableInfo struct {
	Name    string
	Columns []string
	Indexes []string
}

// DefineTable validates and commits a new table with an empty index per indexed column
func (e *Engine) DefineTable(req DefineRequest) (*TableInfo, error) {
	for _, col := range req.Columns {
		if !col.Type.Valid() {
			return nil, errors.NewInvalidDefinition(req.Name, col.Name,
				"column type must be INT or TEXT, got "+string(col.Type))
		}
	}

	meta, err := e.meta.Define(req.Name, req.Columns, req.Indexes)
	if err != nil {
		return nil, err
	}

	for _, col := range meta.Indexed {
		if err := e.indexes.Create(meta.Name, col); err != nil {
			// A missing index is rebuilt on first use, so the table stays usable
			e.logger.Warn("failed to initialize index",
				slog.String("table", meta.Name),
				slog.String("column", col),
				slog.Any("error", err),
			)
		}
	}

	info := &TableInfo{
		Name:    meta.Name,
		Columns: meta.ColumnNames(),
		Indexes: append([]string{}, meta.Indexed...),
	}

	e.logger.Info("table defined",
		slog.String("table", info.Name),
		slog.Any("columns", info.Columns),
		slog.Any("indexes", info.Indexes),
	)
	e.notify(Event{Type: EventDefineTable, OpID: newOpID(), Table: info.Name, Data: info})
	return info, nil
}
