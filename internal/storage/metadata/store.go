package metadata

import (
	"log/slog"
	"os"
	"sort"

	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/domain/schema"
	"github.com/leengari/mini-sql/internal/storage"
	"github.com/leengari/mini-sql/internal/storage/writer"
)

// Store persists per-table metadata records
type Store struct {
	layout storage.Layout
	logger *slog.Logger
}

// NewStore creates a metadata store rooted at dir
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		layout: storage.NewLayout(dir),
		logger: logger,
	}
}

// Layout returns the on-disk layout used by the store
func (s *Store) Layout() storage.Layout {
	return s.layout
}

// Define validates and persists a new table record with a zero row count.
// It also creates the empty row log.
func (s *Store) Define(name string, columns []schema.Column, indexed []string) (*schema.TableMeta, error) {
	if indexed == nil {
		indexed = []string{}
	}
	meta := &schema.TableMeta{
		Name:    name,
		Columns: columns,
		Indexed: indexed,
		Rows:    0,
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	// Check if exists
	if _, err := os.Stat(s.layout.MetaPath(name)); err == nil {
		return nil, errors.NewAlreadyExists(name)
	} else if !os.IsNotExist(err) {
		return nil, errors.NewIOFailure(name, "failed to stat meta.json", err)
	}

	if err := os.MkdirAll(s.layout.TableDir(name), 0755); err != nil {
		return nil, errors.NewIOFailure(name, "failed to create table directory", err)
	}

	f, err := os.OpenFile(s.layout.RowsPath(name), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.NewIOFailure(name, "failed to create row log", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.NewIOFailure(name, "failed to create row log", err)
	}

	// meta.json goes last: its presence is what makes the table exist
	if err := writer.WriteJSON(s.layout.MetaPath(name), meta); err != nil {
		return nil, errors.NewIOFailure(name, "failed to write meta.json", err)
	}

	s.logger.Debug("table metadata written",
		slog.String("table", name),
		slog.Int("columns", len(columns)),
		slog.Any("indexed", indexed),
	)
	return meta, nil
}

// Load returns the metadata record of a table
func (s *Store) Load(name string) (*schema.TableMeta, error) {
	if !schema.ValidName(name) {
		return nil, errors.NewNotFound(name)
	}

	var meta schema.TableMeta
	if err := writer.ReadJSON(s.layout.MetaPath(name), &meta); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(name)
		}
		return nil, errors.NewIOFailure(name, "failed to read meta.json", err)
	}
	if meta.Indexed == nil {
		meta.Indexed = []string{}
	}
	return &meta, nil
}

// IncrementRowCount bumps the persisted row count by one and returns the new count
func (s *Store) IncrementRowCount(name string) (int, error) {
	meta, err := s.Load(name)
	if err != nil {
		return 0, err
	}
	meta.Rows++
	if err := writer.WriteJSON(s.layout.MetaPath(name), meta); err != nil {
		return 0, errors.NewIOFailure(name, "failed to write meta.json", err)
	}
	return meta.Rows, nil
}

// SetRowCount overwrites the persisted row count.
// Used to undo an append; rows beyond the count are ignored by readers.
func (s *Store) SetRowCount(name string, rows int) error {
	meta, err := s.Load(name)
	if err != nil {
		return err
	}
	if rows < 0 || rows > meta.Rows {
		return errors.NewOutOfRange(name, rows, meta.Rows)
	}
	meta.Rows = rows
	if err := writer.WriteJSON(s.layout.MetaPath(name), meta); err != nil {
		return errors.NewIOFailure(name, "failed to write meta.json", err)
	}
	return nil
}

// List returns the names of all defined tables, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.layout.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.NewIOFailure("", "failed to read data directory", err)
	}

	tables := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// A directory is a table only once its meta.json exists
		if _, err := os.Stat(s.layout.MetaPath(entry.Name())); err == nil {
			tables = append(tables, entry.Name())
		} else if !os.IsNotExist(err) {
			return nil, errors.NewIOFailure(entry.Name(), "failed to stat meta.json", err)
		}
	}
	sort.Strings(tables)
	return tables, nil
}
