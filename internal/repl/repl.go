package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/engine"
	"github.com/leengari/mini-sql/internal/parser"
)

const Prompt = "mini-sql> "

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

var keywordStart = regexp.MustCompile(`(?i)\b(CREATE|INSERT|SELECT|TABLES|EXIT)\b`)

// Normalize strips a pasted prompt or other prefix before the first statement
// keyword and drops a trailing "--" comment.
func Normalize(line string) string {
	if loc := keywordStart.FindStringIndex(line); loc != nil {
		line = line[loc[0]:]
	}
	return strings.TrimSpace(stripComment(line))
}

// stripComment cuts the line at the first "--" outside a quoted literal
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '-' && i+1 < len(line) && line[i+1] == '-':
			return line[:i]
		}
	}
	return line
}

// Shell dispatches statements to the engine and prints results
type Shell struct {
	engine *engine.Engine
	out    io.Writer
}

func New(eng *engine.Engine, out io.Writer) *Shell {
	return &Shell{engine: eng, out: out}
}

// Run reads statements from in until EXIT or end of input
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(s.out, "Mini-SQL shell. Type EXIT; to quit.")

	for {
		fmt.Fprint(s.out, promptStyle.Render(Prompt))
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := Normalize(scanner.Text())
		if line == "" {
			continue
		}
		if isCommand(line, "EXIT") {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintln(s.out, errorStyle.Render("Error: "+err.Error()))
		}
	}
}

// RunFile executes a script one statement per line.
// Failing lines are reported and skipped.
func (s *Shell) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		line = Normalize(line)
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			line += ";"
		}
		if isCommand(line, "EXIT") {
			break
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintln(s.out, errorStyle.Render(fmt.Sprintf("Error processing line: %s %v", line, err)))
		}
	}
	return scanner.Err()
}

// Execute runs a single statement and prints its result
func (s *Shell) Execute(line string) error {
	if isCommand(line, "TABLES") {
		tables, err := s.engine.ListTables()
		if err != nil {
			return err
		}
		for _, t := range tables {
			fmt.Fprintf(s.out, "  - %s\n", t)
		}
		fmt.Fprintf(s.out, "(%d tables)\n", len(tables))
		return nil
	}

	if !keywordStart.MatchString(firstWord(line)) {
		return fmt.Errorf("unsupported command. Supported: CREATE, INSERT, SELECT, TABLES, EXIT")
	}

	stmt, err := parser.Parse(line)
	if err != nil {
		return err
	}

	switch st := stmt.(type) {
	case *parser.CreateTable:
		info, err := s.engine.DefineTable(st.Request)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf(
			"Table `%s` created with columns %v and indexes %v", info.Name, info.Columns, info.Indexes)))

	case *parser.Insert:
		pos, err := s.engine.InsertRow(st.Table, st.Values)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf("1 row inserted into `%s` (line %d)", st.Table, pos)))

	case *parser.Select:
		rows, err := s.engine.Query(st.Request)
		if err != nil {
			return err
		}
		meta, err := s.engine.Schema(st.Request.Table)
		if err != nil {
			return err
		}
		PrintRows(s.out, meta.ColumnNames(), rows)

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
	return nil
}

// PrintRows renders rows as a table in the given column order followed by a row count
func PrintRows(w io.Writer, columns []string, rows []data.Row) {
	if len(rows) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		// Header
		fmt.Fprintln(tw, strings.Join(columns, "\t"))

		// Separator
		seps := make([]string, len(columns))
		for i := range seps {
			seps[i] = "---"
		}
		fmt.Fprintln(tw, strings.Join(seps, "\t"))

		// Rows
		for _, row := range rows {
			values := row.Values(columns)
			cells := make([]string, len(values))
			for i, val := range values {
				if val == nil {
					cells[i] = "NULL"
				} else {
					cells[i] = fmt.Sprintf("%v", val)
				}
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func isCommand(line, keyword string) bool {
	return strings.EqualFold(strings.TrimSuffix(strings.TrimSpace(line), ";"), keyword)
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimSuffix(fields[0], ";")
}
