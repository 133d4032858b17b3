package engine

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/mini-sql/internal/domain/errors"
	"github.com/leengari/mini-sql/internal/domain/schema"
	"github.com/leengari/mini-sql/internal/storage/index"
	"github.com/leengari/mini-sql/internal/storage/metadata"
	"github.com/leengari/mini-sql/internal/storage/rows"
)

// Engine is the entry point of the storage and query-evaluation core.
// It assumes a single writer; callers serialize mutating operations.
type Engine struct {
	meta      *metadata.Store
	rows      *rows.Store
	indexes   *index.Store
	logger    *slog.Logger
	observers []Observer // Observers for lifecycle events
}

// Open creates the data directory if needed and wires the three stores on it
func Open(dataDir string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.NewIOFailure("", "failed to create data directory", err)
	}

	meta := metadata.NewStore(dataDir, logger)
	rowStore := rows.NewStore(meta, logger)
	e := New(meta, rowStore, index.NewStore(rowStore, logger), logger)

	logger.Info("engine opened", slog.String("data_dir", dataDir))
	return e, nil
}

// New creates an Engine over existing stores
func New(meta *metadata.Store, rowStore *rows.Store, indexes *index.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		meta:      meta,
		rows:      rowStore,
		indexes:   indexes,
		logger:    logger,
		observers: make([]Observer, 0),
	}
}

// Schema returns the metadata record of a table
func (e *Engine) Schema(table string) (*schema.TableMeta, error) {
	return e.meta.Load(table)
}

// ListTables returns the names of all defined tables
func (e *Engine) ListTables() ([]string, error) {
	return e.meta.List()
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}

func newOpID() string {
	return uuid.New().String()
}
