package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const maxConflictRetries = 64

var errClosed = errors.New("badger: database is closed")

// Config holds the location of an embedded database.
type Config struct {
	Path     string
	InMemory bool
}

// Store implements db.Store on an embedded BadgerDB. Hashes are kept as one
// JSON object per key and counters as decimal strings, so the key layout
// matches the Redis driver.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithLogger(&zapAdapter{log: logger.Named("badger").Sugar()}).
		WithCompression(options.None)

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb, logger: logger}, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("stat data dir: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Ping reports whether the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: db.OpPing, Err: errClosed}
	}
	return nil
}

// WaitForReady returns immediately: an opened embedded database is ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close flushes and closes the database. Closing twice is a no-op.
func (s *Store) Close() {
	if s.db.IsClosed() {
		return
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close badger", zap.Error(err))
	}
}

// view runs fn in a read-only transaction after checking ctx.
func (s *Store) view(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: op, Err: errClosed}
	}
	if err := s.db.View(fn); err != nil {
		return wrap(op, err)
	}
	return nil
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *Store) update(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return &db.Error{Op: op, Err: err}
		}
		if s.db.IsClosed() {
			return &db.Error{Op: op, Err: errClosed}
		}
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return wrap(op, err)
		}
		return nil
	}
}

func wrap(op string, err error) error {
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return err
	}
	return &db.Error{Op: op, Err: err}
}
