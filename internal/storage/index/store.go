package index

import (
	"bytes"
	"log/slog"
	"os"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/leengari/mini-sql/internal/domain/data"
	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/storage"
	"github.com/leengari/mini-sql/internal/storage/rows"
	"github.com/leengari/mini-sql/internal/storage/writer"
)

const (
	// bloomMinCapacity keeps small indexes from sizing a filter for zero keys
	bloomMinCapacity = 64
	bloomFalseRate   = 0.01
)

// Record is the persisted content of one index:
// stringified value → row positions in insertion order
type Record map[string][]int

// Store maintains secondary equality indexes.
// An index is a cache of grouping the table's rows by column value and
// can always be rebuilt from a full scan.
type Store struct {
	layout storage.Layout
	rows   *rows.Store
	logger *slog.Logger
}

// NewStore creates an index store over the given row store
func NewStore(rowStore *rows.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		layout: rowStore.Layout(),
		rows:   rowStore,
		logger: logger,
	}
}

// Exists reports whether an index record is persisted for (table, column)
func (s *Store) Exists(table, column string) bool {
	_, err := os.Stat(s.layout.IndexPath(table, column))
	return err == nil
}

// Ensure builds the index from a full scan if it does not exist yet.
// Rows whose column is null are skipped. No-op for an existing index.
func (s *Store) Ensure(table, column string) error {
	if s.Exists(table, column) {
		return nil
	}

	cur, err := s.rows.Scan(table)
	if err != nil {
		return err
	}
	defer cur.Close()

	rec := make(Record)
	for cur.Next() {
		val, ok := cur.Row()[column]
		if !ok || val == nil {
			continue
		}
		key := data.Stringify(val)
		rec[key] = append(rec[key], cur.Position())
	}
	if err := cur.Err(); err != nil {
		return err
	}

	if err := s.save(table, column, rec); err != nil {
		return err
	}

	s.logger.Debug("index built",
		slog.String("table", table),
		slog.String("column", column),
		slog.Int("unique_values", len(rec)),
		slog.Int("rows_scanned", cur.Len()),
	)
	return nil
}

// UpdateOnInsert records that the row at position holds value in column
func (s *Store) UpdateOnInsert(table, column string, value any, position int) error {
	if err := s.Ensure(table, column); err != nil {
		return err
	}

	rec, err := s.load(table, column)
	if err != nil {
		return err
	}

	key := data.Stringify(value)
	bucket := rec[key]
	// Ensure may have just built the index from a scan that already saw this row
	if n := len(bucket); n > 0 && bucket[n-1] >= position {
		return nil
	}
	rec[key] = append(bucket, position)

	if err := s.save(table, column, rec); err != nil {
		return err
	}

	s.logger.Debug("index updated",
		slog.String("table", table),
		slog.String("column", column),
		slog.String("key", key),
		slog.Int("position", position),
	)
	return nil
}

// Revert takes position back out of the bucket for value, undoing an
// UpdateOnInsert. Only the last entry of the bucket can be reverted.
func (s *Store) Revert(table, column string, value any, position int) error {
	rec, err := s.load(table, column)
	if err != nil {
		return err
	}

	key := data.Stringify(value)
	bucket := rec[key]
	n := len(bucket)
	if n == 0 || bucket[n-1] != position {
		return nil
	}
	if n == 1 {
		delete(rec, key)
	} else {
		rec[key] = bucket[:n-1]
	}

	if err := s.save(table, column, rec); err != nil {
		return err
	}

	s.logger.Debug("index update reverted",
		slog.String("table", table),
		slog.String("column", column),
		slog.String("key", key),
		slog.Int("position", position),
	)
	return nil
}

// Lookup returns the row positions stored under value.
// A missing index or key yields an empty result; errors are logged, never returned.
func (s *Store) Lookup(table, column string, value any) []int {
	key := data.Stringify(value)

	if !s.mayContain(table, column, key) {
		return []int{}
	}

	rec, err := s.load(table, column)
	if err != nil {
		if errors.KindOf(err) != errors.KindNotFound {
			s.logger.Warn("index lookup failed",
				slog.String("table", table),
				slog.String("column", column),
				slog.Any("error", err),
			)
		}
		return []int{}
	}

	positions := make([]int, len(rec[key]))
	copy(positions, rec[key])
	return positions
}

// Drop removes the index record and its filter, forcing the next
// Ensure to rebuild from the rows.
func (s *Store) Drop(table, column string) error {
	if err := os.Remove(s.layout.BloomPath(table, column)); err != nil && !os.IsNotExist(err) {
		return errors.NewIOFailure(table, "failed to remove index filter", err)
	}
	if err := os.Remove(s.layout.IndexPath(table, column)); err != nil && !os.IsNotExist(err) {
		return errors.NewIOFailure(table, "failed to remove index", err)
	}
	return nil
}

// Create persists an empty index for a freshly defined table
func (s *Store) Create(table, column string) error {
	return s.save(table, column, make(Record))
}

func (s *Store) load(table, column string) (Record, error) {
	rec := make(Record)
	if err := writer.ReadJSON(s.layout.IndexPath(table, column), &rec); err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.Error{Kind: errors.KindNotFound, Table: table, Column: column, Reason: "index does not exist", Position: -1}
		}
		return nil, errors.NewIOFailure(table, "failed to read index "+column, err)
	}
	return rec, nil
}

// save writes the record, then its filter.
// The old filter is removed first so a stale filter can never hide a key.
func (s *Store) save(table, column string, rec Record) error {
	bloomPath := s.layout.BloomPath(table, column)
	if err := os.Remove(bloomPath); err != nil && !os.IsNotExist(err) {
		return errors.NewIOFailure(table, "failed to remove index filter", err)
	}

	if err := writer.WriteJSON(s.layout.IndexPath(table, column), rec); err != nil {
		return errors.NewIOFailure(table, "failed to write index "+column, err)
	}

	capacity := len(rec)
	if capacity < bloomMinCapacity {
		capacity = bloomMinCapacity
	}
	filter := bloom.NewWithEstimates(uint(capacity), bloomFalseRate)
	for key := range rec {
		filter.AddString(key)
	}

	var buf bytes.Buffer
	if _, err := filter.WriteTo(&buf); err != nil {
		s.logger.Warn("failed to encode index filter", slog.String("table", table), slog.String("column", column), slog.Any("error", err))
		return nil
	}
	if err := writer.WriteFileAtomic(bloomPath, buf.Bytes()); err != nil {
		// The index itself is intact; lookups fall back to reading it
		s.logger.Warn("failed to write index filter", slog.String("table", table), slog.String("column", column), slog.Any("error", err))
	}
	return nil
}

// mayContain consults the filter. Any problem reading it answers "maybe".
func (s *Store) mayContain(table, column, key string) bool {
	raw, err := os.ReadFile(s.layout.BloomPath(table, column))
	if err != nil {
		return true
	}
	var filter bloom.BloomFilter
	if _, err := filter.ReadFrom(bytes.NewReader(raw)); err != nil {
		return true
	}
	return filter.TestString(key)
}
