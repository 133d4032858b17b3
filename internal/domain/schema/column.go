package schema

import "regexp"

type ColumnType string

const (
	ColumnTypeInt  ColumnType = "INT"
	ColumnTypeText ColumnType = "TEXT"
)

// Valid reports whether t is one of the supported storage types
func (t ColumnType) Valid() bool {
	return t == ColumnTypeInt || t == ColumnTypeText
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether s can be used as a table or column name.
// Names double as path elements on disk.
func ValidName(s string) bool {
	return identRegex.MatchString(s)
}
