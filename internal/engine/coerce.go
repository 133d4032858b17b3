package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/domain/schema"
)

// coerce converts an input literal to the column's storage type.
// INT accepts integers or strings that parse fully as a base-10 integer;
// TEXT accepts anything by taking its textual form.
func coerce(table string, col schema.Column, value any) (any, error) {
	switch col.Type {
	case schema.ColumnTypeInt:
		return coerceInt(table, col.Name, value)
	case schema.ColumnTypeText:
		return coerceText(value), nil
	default:
		return nil, errors.NewTypeCoercion(table, col.Name, value, string(col.Type))
	}
}

func coerceInt(table, column string, value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, errors.NewTypeCoercion(table, column, value, string(schema.ColumnTypeInt))
		}
		return n, nil
	default:
		return 0, errors.NewTypeCoercion(table, column, value, string(schema.ColumnTypeInt))
	}
}

func coerceText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
