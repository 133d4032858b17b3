package data

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/leengari/mini-sql/internal/domain/schema"
)

// Row represents a single table row
// Key = column name, Value = cell value (int64 for INT, string for TEXT)
type Row map[string]any

// Values returns the row's values in the given column order
func (r Row) Values(columns []string) []any {
	vals := make([]any, len(columns))
	for i, c := range columns {
		vals[i] = r[c]
	}
	return vals
}

// Encode serializes the row as one row-log record
func (r Row) Encode() ([]byte, error) {
	return json.Marshal(map[string]any(r))
}

// Decode parses a row-log record, restoring typed values from the table schema.
// Columns absent from the record stay absent (null).
func Decode(line []byte, columns []schema.Column) (Row, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for _, col := range columns {
		v, ok := raw[col.Name]
		if !ok || v == nil {
			continue
		}
		switch col.Type {
		case schema.ColumnTypeInt:
			n, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("column %s: expected number, got %T", col.Name, v)
			}
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
			row[col.Name] = i
		case schema.ColumnTypeText:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("column %s: expected string, got %T", col.Name, v)
			}
			row[col.Name] = s
		}
	}
	return row, nil
}

// Stringify returns the canonical index key of a stored value
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
