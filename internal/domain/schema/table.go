package schema

import (
	"fmt"

	"github.com/leengari/mini-sql/internal/domain/errors"
)

// TableMeta is the persisted metadata record of a table (meta.json)
type TableMeta struct {
	Name    string   `json:"table"`
	Columns []Column `json:"schema"`
	Indexed []string `json:"indexed"`
	Rows    int      `json:"rows"`
}

// ColumnNames returns the column names in schema order
func (m *TableMeta) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (m *TableMeta) Column(name string) (Column, bool) {
	for _, col := range m.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// IsIndexed reports whether the column carries a secondary index
func (m *TableMeta) IsIndexed(column string) bool {
	for _, c := range m.Indexed {
		if c == column {
			return true
		}
	}
	return false
}

// Validate checks the definition part of the record:
// names, column types, duplicates and that indexed columns exist.
func (m *TableMeta) Validate() error {
	if !ValidName(m.Name) {
		return errors.NewInvalidDefinition(m.Name, "", "invalid table name")
	}
	if len(m.Columns) == 0 {
		return errors.NewInvalidDefinition(m.Name, "", "table must have at least one column")
	}

	seen := make(map[string]bool, len(m.Columns))
	for _, col := range m.Columns {
		if !ValidName(col.Name) {
			return errors.NewInvalidDefinition(m.Name, col.Name, "invalid column name")
		}
		if seen[col.Name] {
			return errors.NewInvalidDefinition(m.Name, col.Name, "duplicate column")
		}
		if !col.Type.Valid() {
			return errors.NewInvalidDefinition(m.Name, col.Name,
				fmt.Sprintf("unsupported type %q (want INT or TEXT)", col.Type))
		}
		seen[col.Name] = true
	}

	indexed := make(map[string]bool, len(m.Indexed))
	for _, c := range m.Indexed {
		if _, ok := m.Column(c); !ok {
			return errors.NewInvalidDefinition(m.Name, c, "indexed column is not in schema")
		}
		if indexed[c] {
			return errors.NewInvalidDefinition(m.Name, c, "column indexed twice")
		}
		indexed[c] = true
	}
	return nil
}
