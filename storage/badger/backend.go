package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/corpora/storage"
)

const (
	// defaultCapacity bounds the number of in-flight storage operations.
	defaultCapacity = 64

	// defaultAcquireWait bounds how long a caller waits for capacity before
	// the operation is refused.
	defaultAcquireWait = 5 * time.Second
)

// Backend wraps a BadgerDB instance and provides low-level operations.
// A bounded semaphore caps concurrent transactions; waiters beyond capacity
// block up to a fixed wait before the operation is refused.
type Backend struct {
	db     *badger.DB
	sem    chan struct{}
	wait   time.Duration
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// BackendOption configures a Backend.
type BackendOption func(*Backend) error

// WithCapacity sets the maximum number of concurrent storage operations.
// Default is 64.
func WithCapacity(n int) BackendOption {
	return func(b *Backend) error {
		if n <= 0 {
			return fmt.Errorf("capacity must be positive, got %d", n)
		}
		b.sem = make(chan struct{}, n)
		return nil
	}
}

// WithAcquireWait sets how long callers wait for free capacity.
// Default is 5 seconds.
func WithAcquireWait(d time.Duration) BackendOption {
	return func(b *Backend) error {
		if d <= 0 {
			return fmt.Errorf("acquire wait must be positive, got %v", d)
		}
		b.wait = d
		return nil
	}
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool, backendOpts ...BackendOption) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	backend := &Backend{
		sem:    make(chan struct{}, defaultCapacity),
		wait:   defaultAcquireWait,
		logger: slog.Default(),
	}
	for _, opt := range backendOpts {
		if err := opt(backend); err != nil {
			return nil, err
		}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	backend.db = db
	return backend, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// acquire claims one slot of operation capacity. The returned release
// function must be called exactly once.
func (b *Backend) acquire(ctx context.Context) (func(), error) {
	timer := time.NewTimer(b.wait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return func() { <-b.sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, ctx.Err())
	case <-timer.C:
		return nil, fmt.Errorf("%w: storage capacity wait exceeded %v", storage.ErrUnavailable, b.wait)
	}
}

// WithTx executes a function within a BadgerDB transaction, counting it
// against the backend's operation capacity. If isWrite is true, creates a
// read-write transaction. The transaction is automatically discarded if fn
// returns an error.
func (b *Backend) WithTx(ctx context.Context, fn func(tx *badger.Txn) error, isWrite bool) error {
	release, err := b.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// WithTransaction executes a function within a transaction.
// Implements part of the storage.Repository interface.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(ctx, func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
