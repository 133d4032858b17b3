package engine

import (
	"log/slog"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/schema"
	"github.com/leengari/mini-sql/internal/query/predicate"
)

// Access paths chosen by the query evaluator
const (
	PathScan  = "scan"
	PathIndex = "index"
)

// QueryRequest retrieves rows of a table, optionally filtered by one predicate
type QueryRequest struct {
	Table string
	Where *predicate.Predicate
}

// Query answers a retrieval request. Rows come back in increasing position order.
func (e *Engine) Query(req QueryRequest) ([]data.Row, error) {
	meta, err := e.meta.Load(req.Table)
	if err != nil {
		return nil, err
	}

	opID := newOpID()
	path := choosePath(meta, req.Where)
	e.notify(Event{Type: EventQueryStart, OpID: opID, Table: req.Table, Data: path})
	e.logger.Debug("query path chosen",
		slog.String("table", req.Table),
		slog.String("path", path),
		slog.Any("where", req.Where),
	)

	var result []data.Row
	if path == PathIndex {
		result, err = e.indexLookup(req.Table, *req.Where)
	} else {
		result, err = e.scanFilter(req.Table, req.Where)
	}
	if err != nil {
		return nil, err
	}

	e.notify(Event{Type: EventQueryEnd, OpID: opID, Table: req.Table, Data: map[string]interface{}{
		"path":          path,
		"rows_returned": len(result),
	}})
	return result, nil
}

// choosePath uses the index only for equality on an indexed column
func choosePath(meta *schema.TableMeta, where *predicate.Predicate) string {
	if where != nil && where.Op == predicate.OpEq && meta.IsIndexed(where.Column) {
		return PathIndex
	}
	return PathScan
}

// indexLookup fetches the rows the index lists for the literal, in index order.
// Candidates are re-checked so both paths agree on cross-typed literals.
func (e *Engine) indexLookup(table string, where predicate.Predicate) ([]data.Row, error) {
	if err := e.indexes.Ensure(table, where.Column); err != nil {
		return nil, err
	}

	match := predicate.Build(where)
	positions := e.indexes.Lookup(table, where.Column, where.Value)
	candidates, err := e.rows.ReadPositions(table, positions)
	if err != nil {
		return nil, err
	}

	result := make([]data.Row, 0, len(candidates))
	for _, row := range candidates {
		if match(row) {
			result = append(result, row)
		}
	}
	return result, nil
}

// scanFilter walks every row; a nil predicate keeps all of them
func (e *Engine) scanFilter(table string, where *predicate.Predicate) ([]data.Row, error) {
	cur, err := e.rows.Scan(table)
	if err != nil {
		return nil, err
	}
	if where == nil {
		return cur.Collect()
	}
	defer cur.Close()

	match := predicate.Build(*where)
	result := []data.Row{}
	for cur.Next() {
		if match(cur.Row()) {
			result = append(result, cur.Row())
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
