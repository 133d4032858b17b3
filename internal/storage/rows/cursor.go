package rows

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/domain/schema"
)

// Cursor iterates (position, row) pairs in increasing position order.
// It stops at the row count captured when the scan started.
//
//	cur, err := store.Scan("users")
//	...
//	defer cur.Close()
//	for cur.Next() {
//		use(cur.Position(), cur.Row())
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor struct {
	table    string
	columns  []schema.Column
	limit    int
	file     *os.File
	reader   *bufio.Reader
	position int
	row      data.Row
	err      error
}

// Next advances to the next row.
// It returns false at the end of the snapshot or on error.
func (c *Cursor) Next() bool {
	if c.err != nil || c.reader == nil || c.position+1 >= c.limit {
		return false
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil && !(err == io.EOF && len(line) > 0) {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		c.err = errors.NewIOFailure(c.table, "failed to read row log", err)
		return false
	}

	row, err := data.Decode(bytes.TrimSpace(line), c.columns)
	if err != nil {
		c.err = errors.NewIOFailure(c.table, "corrupt row record", err)
		return false
	}

	c.position++
	c.row = row
	return true
}

// Position returns the position of the current row
func (c *Cursor) Position() int {
	return c.position
}

// Row returns the current row
func (c *Cursor) Row() data.Row {
	return c.row
}

// Len returns the number of rows covered by the scan
func (c *Cursor) Len() int {
	return c.limit
}

// Err returns the first error hit during iteration
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the underlying file. Safe to call more than once.
func (c *Cursor) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	c.reader = nil
	return err
}

// Collect drains the cursor into a slice and closes it
func (c *Cursor) Collect() ([]data.Row, error) {
	defer c.Close()
	result := make([]data.Row, 0, c.limit)
	for c.Next() {
		result = append(result, c.Row())
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
