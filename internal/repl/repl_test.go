package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM users;":                "SELECT * FROM users;",
		"mini-sql> SELECT * FROM users;":      "SELECT * FROM users;",
		"  insert into t values (1); -- note": "insert into t values (1);",
		"junk TABLES":                         "TABLES",
		"   ":                                 "",
		"EXIT;":                               "EXIT;",
		"no keyword here":                     "no keyword here",
		`INSERT INTO t VALUES ('a--b'); -- x`: `INSERT INTO t VALUES ('a--b');`,
		`SELECT * FROM t WHERE s = "--"`:      `SELECT * FROM t WHERE s = "--"`,
	}
	for in, want := range tests {
		assert.Equal(t, Normalize(in), want, "input %q", in)
	}
}

func newShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	eng, _ := testutil.NewEngine(t)
	var out bytes.Buffer
	return New(eng, &out), &out
}

func TestExecuteStatements(t *testing.T) {
	shell, out := newShell(t)

	assert.NilError(t, shell.Execute("CREATE TABLE users (id INT, name TEXT) INDEX(id);"))
	assert.Assert(t, strings.Contains(out.String(), "Table `users` created with columns [id name] and indexes [id]"), out.String())

	out.Reset()
	assert.NilError(t, shell.Execute(`INSERT INTO users VALUES (1, "Alice");`))
	assert.Assert(t, strings.Contains(out.String(), "1 row inserted into `users` (line 0)"), out.String())
	assert.NilError(t, shell.Execute(`INSERT INTO users VALUES ("2", Bob);`))

	out.Reset()
	assert.NilError(t, shell.Execute("SELECT * FROM users WHERE id = 2;"))
	got := out.String()
	assert.Assert(t, strings.Contains(got, "Bob"), got)
	assert.Assert(t, !strings.Contains(got, "Alice"), got)
	assert.Assert(t, strings.HasSuffix(got, "(1 rows)\n"), got)

	out.Reset()
	assert.NilError(t, shell.Execute("TABLES;"))
	assert.Equal(t, out.String(), "  - users\n(1 tables)\n")
}

func TestExecuteErrors(t *testing.T) {
	shell, _ := newShell(t)

	err := shell.Execute("DROP TABLE users;")
	assert.ErrorContains(t, err, "unsupported command")

	err = shell.Execute("SELECT name FROM users;")
	assert.ErrorContains(t, err, "syntax error")

	err = shell.Execute("SELECT * FROM users;")
	assert.ErrorContains(t, err, "users")

	assert.NilError(t, shell.Execute("CREATE TABLE users (id INT);"))
	err = shell.Execute(`INSERT INTO users VALUES ("abc");`)
	assert.ErrorContains(t, err, "abc")
}

func TestRunStopsAtExit(t *testing.T) {
	shell, out := newShell(t)

	input := strings.Join([]string{
		"CREATE TABLE t (id INT);",
		"",
		"INSERT INTO t VALUES (oops);",
		"EXIT;",
		"INSERT INTO t VALUES (1);",
	}, "\n")
	assert.NilError(t, shell.Run(strings.NewReader(input)))

	got := out.String()
	assert.Assert(t, strings.Contains(got, "Table `t` created"), got)
	assert.Assert(t, strings.Contains(got, "Error: "), got)
	assert.Assert(t, strings.Contains(got, "Bye"), got)
	assert.Assert(t, !strings.Contains(got, "1 row inserted"), got)
}

func TestRunEndsAtEOF(t *testing.T) {
	shell, out := newShell(t)
	assert.NilError(t, shell.Run(strings.NewReader("TABLES")))
	assert.Assert(t, strings.Contains(out.String(), "(0 tables)"), out.String())
}

func TestRunFile(t *testing.T) {
	shell, out := newShell(t)

	script := strings.Join([]string{
		"-- seed users",
		"CREATE TABLE users (id INT, name TEXT) INDEX(id)",
		`INSERT INTO users VALUES (1, "Alice");`,
		`INSERT INTO users VALUES (2, "Bob")`,
		`INSERT INTO users VALUES (1)`,
		"",
		"SELECT * FROM users WHERE name != \"Bob\";",
	}, "\n")
	path := filepath.Join(t.TempDir(), "seed.sql")
	assert.NilError(t, os.WriteFile(path, []byte(script), 0644))

	assert.NilError(t, shell.RunFile(path))

	got := out.String()
	assert.Assert(t, strings.Contains(got, "(line 1)"), got)
	assert.Assert(t, strings.Contains(got, "Error processing line: INSERT INTO users VALUES (1);"), got)
	assert.Assert(t, strings.Contains(got, "Alice"), got)
	assert.Assert(t, strings.Contains(got, "(1 rows)"), got)
}

func TestDashesInsideLiteralsAreKept(t *testing.T) {
	shell, out := newShell(t)
	assert.NilError(t, shell.Execute("CREATE TABLE notes (body TEXT);"))

	line := Normalize(`INSERT INTO notes VALUES ('a--b'); -- trailing note`)
	assert.NilError(t, shell.Execute(line))

	out.Reset()
	assert.NilError(t, shell.Execute(Normalize(`SELECT * FROM notes WHERE body = "a--b";`)))
	assert.Assert(t, strings.Contains(out.String(), "a--b"), out.String())
	assert.Assert(t, strings.HasSuffix(out.String(), "(1 rows)\n"), out.String())
}

func TestRunFileMissing(t *testing.T) {
	shell, _ := newShell(t)
	err := shell.RunFile(filepath.Join(t.TempDir(), "absent.sql"))
	assert.ErrorContains(t, err, "failed to open")
}

func TestPrintRows(t *testing.T) {
	var out bytes.Buffer
	PrintRows(&out, []string{"id", "name"}, []data.Row{
		{"id": int64(1), "name": "Alice"},
		{"id": int64(2)},
	})

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 5)
	assert.Equal(t, strings.Fields(lines[0])[1], "name")
	assert.DeepEqual(t, strings.Fields(lines[1]), []string{"---", "---"})
	assert.DeepEqual(t, strings.Fields(lines[3]), []string{"2", "NULL"})
	assert.Equal(t, lines[4], "(2 rows)")

	out.Reset()
	PrintRows(&out, []string{"id"}, nil)
	assert.Equal(t, out.String(), "(0 rows)\n")
}
