package integration

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/engine"
	"github.com/leengari/mini-sql/internal/parser"
	"github.com/leengari/mini-sql/internal/testutil"
)

// exec parses and runs one statement, returning rows for SELECT
func exec(t *testing.T, eng *engine.Engine, sql string) ([]data.Row, error) {
	t.Helper()
	stmt, err := parser.Parse(sql)
	if err != nil {
		t.Fatalf("Parse error for %q: %v", sql, err)
	}

	switch st := stmt.(type) {
	case *parser.CreateTable:
		_, err := eng.DefineTable(st.Request)
		return nil, err
	case *parser.Insert:
		_, err := eng.InsertRow(st.Table, st.Values)
		return nil, err
	case *parser.Select:
		return eng.Query(st.Request)
	}
	t.Fatalf("unexpected statement %T", stmt)
	return nil, nil
}

func mustExec(t *testing.T, eng *engine.Engine, sql string) []data.Row {
	t.Helper()
	rows, err := exec(t, eng, sql)
	assert.NilError(t, err, sql)
	return rows
}

func seedUsers(t *testing.T, eng *engine.Engine) {
	t.Helper()
	mustExec(t, eng, "CREATE TABLE users (id INT, name TEXT) INDEX(id);")
	mustExec(t, eng, `INSERT INTO users VALUES (1, "Alice");`)
	mustExec(t, eng, `INSERT INTO users VALUES (2, "Bob");`)
	mustExec(t, eng, `INSERT INTO users VALUES (3, "Carol");`)
}

// TestCRUDOperations drives the users scenario through statement text
func TestCRUDOperations(t *testing.T) {
	eng, _ := testutil.NewEngine(t)
	seedUsers(t, eng)

	t.Run("SelectByIndexedId", func(t *testing.T) {
		rows := mustExec(t, eng, "SELECT * FROM users WHERE id = 2;")
		testutil.AssertRowCount(t, len(rows), 1, "id = 2")
		assert.Equal(t, rows[0]["name"], "Bob")
	})

	t.Run("SelectRange", func(t *testing.T) {
		rows := mustExec(t, eng, "SELECT * FROM users WHERE id > 1;")
		assert.DeepEqual(t, testutil.Column(rows, "name"), []any{"Bob", "Carol"})
	})

	t.Run("SelectNotEqual", func(t *testing.T) {
		rows := mustExec(t, eng, `SELECT * FROM users WHERE name != "Bob";`)
		assert.DeepEqual(t, testutil.Column(rows, "name"), []any{"Alice", "Carol"})
	})

	t.Run("SelectAll", func(t *testing.T) {
		rows := mustExec(t, eng, "select * from users")
		assert.DeepEqual(t, testutil.Column(rows, "id"), []any{int64(1), int64(2), int64(3)})
	})

	t.Run("QuotedIntegerLiteral", func(t *testing.T) {
		// "2" is TEXT and never equals the INT 2
		rows := mustExec(t, eng, `SELECT * FROM users WHERE id = "2";`)
		testutil.AssertRowCount(t, len(rows), 0, `id = "2"`)
	})
}

func TestInsertFailureLeavesTableUnchanged(t *testing.T) {
	eng, _ := testutil.NewEngine(t)
	seedUsers(t, eng)

	_, err := exec(t, eng, `INSERT INTO users VALUES ("abc", "Dave");`)
	assert.Assert(t, stderrors.Is(err, errors.ErrTypeCoercion), "got %v", err)

	_, err = exec(t, eng, `INSERT INTO users VALUES (4);`)
	assert.Assert(t, stderrors.Is(err, errors.ErrColumnCountMismatch), "got %v", err)

	stmt, err := parser.Parse(`INSERT INTO users VALUES ("4", Dave)`)
	assert.NilError(t, err)
	ins := stmt.(*parser.Insert)
	pos, err := eng.InsertRow(ins.Table, ins.Values)
	assert.NilError(t, err)
	assert.Equal(t, pos, 3)

	rows := mustExec(t, eng, "SELECT * FROM users WHERE id = 4")
	assert.DeepEqual(t, testutil.Column(rows, "name"), []any{"Dave"})
}

func TestUndefinedTableAndEmptyTable(t *testing.T) {
	eng, _ := testutil.NewEngine(t)

	_, err := exec(t, eng, "SELECT * FROM users;")
	assert.Assert(t, stderrors.Is(err, errors.ErrNotFound), "got %v", err)

	mustExec(t, eng, "CREATE TABLE users (id INT, name TEXT) INDEX(id);")
	rows := mustExec(t, eng, "SELECT * FROM users;")
	assert.Assert(t, rows != nil)
	assert.Equal(t, len(rows), 0)

	_, err = exec(t, eng, "CREATE TABLE users (id INT);")
	assert.Assert(t, stderrors.Is(err, errors.ErrAlreadyExists), "got %v", err)

	_, err = exec(t, eng, "CREATE TABLE prices (amount FLOAT);")
	assert.Assert(t, stderrors.Is(err, errors.ErrInvalidDefinition), "got %v", err)
}

func TestOnDiskLayout(t *testing.T) {
	eng, dir := testutil.NewEngine(t)
	seedUsers(t, eng)

	for _, rel := range []string{
		"users/meta.json",
		"users/rows.jsonl",
		"users/indexes/id.json",
		"users/indexes/id.bloom",
	} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NilError(t, err, rel)
	}

	meta, err := eng.Schema("users")
	assert.NilError(t, err)
	assert.Equal(t, meta.Rows, 3)
	assert.DeepEqual(t, meta.Indexed, []string{"id"})
}
