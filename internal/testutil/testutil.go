// Package testutil holds fixtures shared by the engine, shell and integration tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/schema"
	"github.com/leengari/mini-sql/internal/engine"
)

// Logger discards everything; tests that care about logs build their own
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewEngine opens an engine on a fresh temp directory
func NewEngine(t *testing.T) (*engine.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	eng, err := engine.Open(dir, Logger())
	if err != nil {
		t.Fatalf("failed to open engine: %v", err)
	}
	return eng, dir
}

// UsersDefinition is users(id INT, name TEXT) INDEX(id)
func UsersDefinition() engine.DefineRequest {
	return engine.DefineRequest{
		Name: "users",
		Columns: []schema.Column{
			{Name: "id", Type: schema.ColumnTypeInt},
			{Name: "name", Type: schema.ColumnTypeText},
		},
		Indexes: []string{"id"},
	}
}

// CreateUsersTable defines users and inserts Alice, Bob and Carol
func CreateUsersTable(t *testing.T, eng *engine.Engine) {
	t.Helper()
	if _, err := eng.DefineTable(UsersDefinition()); err != nil {
		t.Fatalf("failed to define users: %v", err)
	}
	for _, v := range [][]any{
		{int64(1), "Alice"},
		{int64(2), "Bob"},
		{int64(3), "Carol"},
	} {
		if _, err := eng.InsertRow("users", v); err != nil {
			t.Fatalf("failed to insert %v: %v", v, err)
		}
	}
}

// Column extracts one column from each row, in row order
func Column(rows []data.Row, column string) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r[column]
	}
	return out
}

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}
