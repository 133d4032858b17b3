package parser

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/mini-sql/internal/domain/schema"
	"github.com/leengari/mini-sql/internal/query/predicate"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id INT, name text) INDEX(id);")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	create, ok := stmt.(*CreateTable)
	if !ok {
		t.Fatalf("Expected CreateTable, got %T", stmt)
	}

	req := create.Request
	if req.Name != "users" {
		t.Errorf("Expected table users, got %s", req.Name)
	}
	assert.DeepEqual(t, req.Columns, []schema.Column{
		{Name: "id", Type: schema.ColumnTypeInt},
		{Name: "name", Type: schema.ColumnTypeText},
	})
	assert.DeepEqual(t, req.Indexes, []string{"id"})
}

func TestParseCreateTableWithoutIndex(t *testing.T) {
	stmt, err := Parse("create table notes (body TEXT)")
	assert.NilError(t, err)

	create := stmt.(*CreateTable)
	assert.Equal(t, len(create.Request.Columns), 1)
	assert.DeepEqual(t, create.Request.Indexes, []string{})
}

func TestParseCreateTableKeepsUnknownType(t *testing.T) {
	// The engine, not the parser, rejects unsupported types
	stmt, err := Parse("CREATE TABLE t (x FLOAT)")
	assert.NilError(t, err)
	assert.Equal(t, stmt.(*CreateTable).Request.Columns[0].Type, schema.ColumnType("FLOAT"))
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO users VALUES (1, "Alice", 'Bob', bare, -7);`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	ins, ok := stmt.(*Insert)
	if !ok {
		t.Fatalf("Expected Insert, got %T", stmt)
	}
	assert.Equal(t, ins.Table, "users")
	assert.DeepEqual(t, ins.Values, []any{int64(1), "Alice", "Bob", "bare", int64(-7)})
}

func TestParseSelect(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users;")
	assert.NilError(t, err)

	sel, ok := stmt.(*Select)
	if !ok {
		t.Fatalf("Expected Select, got %T", stmt)
	}
	assert.Equal(t, sel.Request.Table, "users")
	assert.Assert(t, sel.Request.Where == nil)
}

func TestParseSelectWhere(t *testing.T) {
	tests := []struct {
		input string
		want  predicate.Predicate
	}{
		{"SELECT * FROM users WHERE id = 2", predicate.Predicate{Column: "id", Op: predicate.OpEq, Value: int64(2)}},
		{"select * from users where id > 1;", predicate.Predicate{Column: "id", Op: predicate.OpGt, Value: int64(1)}},
		{`SELECT * FROM users WHERE name != "Bob"`, predicate.Predicate{Column: "name", Op: predicate.OpNe, Value: "Bob"}},
		{"SELECT * FROM users WHERE name <> 'Bob'", predicate.Predicate{Column: "name", Op: predicate.OpNe, Value: "Bob"}},
		{"SELECT * FROM users WHERE id <= 3", predicate.Predicate{Column: "id", Op: predicate.OpLte, Value: int64(3)}},
		{"SELECT * FROM users WHERE id >= 3", predicate.Predicate{Column: "id", Op: predicate.OpGte, Value: int64(3)}},
		{"SELECT * FROM users WHERE id < 3", predicate.Predicate{Column: "id", Op: predicate.OpLt, Value: int64(3)}},
		{`SELECT * FROM users WHERE id = "2"`, predicate.Predicate{Column: "id", Op: predicate.OpEq, Value: "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			assert.NilError(t, err)
			where := stmt.(*Select).Request.Where
			assert.Assert(t, where != nil)
			assert.DeepEqual(t, *where, tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"SELECT name FROM users",
		"SELECT * FROM",
		"INSERT INTO users (1, 2)",
		"CREATE TABLE t ()",
		"CREATE TABLE t (id)",
		"SELECT * FROM users WHERE id LIKE 1",
		"SELECT * FROM users; extra",
		"DROP TABLE users",
	}

	for _, input := range inputs {
		_, err := Parse(input)
		assert.ErrorContains(t, err, "syntax error", "input %q", input)
	}
}
