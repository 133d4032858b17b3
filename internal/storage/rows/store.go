package rows

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/storage"
	"github.com/leengari/mini-sql/internal/storage/metadata"
)

// Store is the append-only row log of every table.
// A row's position is the ordinal of its line in rows.jsonl.
type Store struct {
	layout storage.Layout
	meta   *metadata.Store
	logger *slog.Logger
}

// NewStore creates a row store sharing the metadata store's data directory
func NewStore(meta *metadata.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		layout: meta.Layout(),
		meta:   meta,
		logger: logger,
	}
}

// Layout returns the on-disk layout used by the store
func (s *Store) Layout() storage.Layout {
	return s.layout
}

// Append writes row as the next record of the table and returns its position.
// The row must already hold typed values for the schema's columns.
// If the row count cannot be bumped the log is truncated back, so a failed
// append leaves no trace.
func (s *Store) Append(table string, row data.Row) (int, error) {
	meta, err := s.meta.Load(table)
	if err != nil {
		return 0, err
	}
	position := meta.Rows

	line, err := row.Encode()
	if err != nil {
		return 0, errors.NewIOFailure(table, "failed to encode row", err)
	}
	line = append(line, '\n')

	path := s.layout.RowsPath(table)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, errors.NewIOFailure(table, "failed to open row log", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, errors.NewIOFailure(table, "failed to stat row log", err)
	}
	prevSize := info.Size()

	if _, err := f.Write(line); err != nil {
		_ = f.Truncate(prevSize)
		f.Close()
		return 0, errors.NewIOFailure(table, "failed to append row", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Truncate(path, prevSize)
		return 0, errors.NewIOFailure(table, "failed to append row", err)
	}

	// Row first, then the count: the count never runs ahead of the log
	if _, err := s.meta.IncrementRowCount(table); err != nil {
		if terr := os.Truncate(path, prevSize); terr != nil {
			s.logger.Error("failed to roll back row append",
				slog.String("table", table),
				slog.Int("position", position),
				slog.Any("error", terr),
			)
		}
		return 0, err
	}

	s.logger.Debug("row appended",
		slog.String("table", table),
		slog.Int("position", position),
	)
	return position, nil
}

// Rollback removes the rows at and after position, leaving the table with
// position rows. The count is lowered before the log is cut so it never
// runs ahead of the rows on disk.
func (s *Store) Rollback(table string, position int) error {
	meta, err := s.meta.Load(table)
	if err != nil {
		return err
	}
	if position < 0 || position > meta.Rows {
		return errors.NewOutOfRange(table, position, meta.Rows)
	}

	path := s.layout.RowsPath(table)
	offset, err := lineOffset(path, position)
	if err != nil {
		return errors.NewIOFailure(table, "failed to locate row in log", err)
	}

	if err := s.meta.SetRowCount(table, position); err != nil {
		return err
	}
	if err := os.Truncate(path, offset); err != nil {
		return errors.NewIOFailure(table, "failed to truncate row log", err)
	}

	s.logger.Debug("rows rolled back",
		slog.String("table", table),
		slog.Int("position", position),
		slog.Int("removed", meta.Rows-position),
	)
	return nil
}

// lineOffset returns the byte offset at which line n of the log starts
func lineOffset(path string, n int) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var offset int64
	for i := 0; i < n; i++ {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		offset += int64(len(line))
	}
	return offset, nil
}

// ReadAt returns the row stored at position
func (s *Store) ReadAt(table string, position int) (data.Row, error) {
	cur, err := s.Scan(table)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	if position < 0 || position >= cur.limit {
		return nil, errors.NewOutOfRange(table, position, cur.limit)
	}

	for cur.Next() {
		if cur.Position() == position {
			return cur.Row(), nil
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	// meta.json claims more rows than the log holds
	return nil, errors.NewIOFailure(table, "row log shorter than row count", io.ErrUnexpectedEOF)
}

// ReadPositions returns the rows at the given positions, in the given order,
// reading the log once up to the highest requested position.
func (s *Store) ReadPositions(table string, positions []int) ([]data.Row, error) {
	cur, err := s.Scan(table)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	wanted := make(map[int]data.Row, len(positions))
	last := -1
	for _, pos := range positions {
		if pos < 0 || pos >= cur.limit {
			return nil, errors.NewOutOfRange(table, pos, cur.limit)
		}
		wanted[pos] = nil
		if pos > last {
			last = pos
		}
	}

	for cur.Position() < last && cur.Next() {
		if _, ok := wanted[cur.Position()]; ok {
			wanted[cur.Position()] = cur.Row()
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if cur.Position() < last {
		return nil, errors.NewIOFailure(table, "row log shorter than row count", io.ErrUnexpectedEOF)
	}

	result := make([]data.Row, len(positions))
	for i, pos := range positions {
		result[i] = wanted[pos]
	}
	return result, nil
}

// Scan opens a cursor over every row present when Scan is called.
// Each call starts a fresh pass from position 0.
func (s *Store) Scan(table string) (*Cursor, error) {
	meta, err := s.meta.Load(table)
	if err != nil {
		return nil, err
	}

	cur := &Cursor{
		table:    table,
		columns:  meta.Columns,
		limit:    meta.Rows,
		position: -1,
	}
	if meta.Rows == 0 {
		return cur, nil
	}

	f, err := os.Open(s.layout.RowsPath(table))
	if err != nil {
		return nil, errors.NewIOFailure(table, "failed to open row log", err)
	}
	cur.file = f
	cur.reader = bufio.NewReader(f)
	return cur, nil
}
