package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// ErrQuotaExceeded is the cause of a store error when a value is larger than the slot quota
var ErrQuotaExceeded = stderrors.New("quota exceeded")

// Repository is a string-keyed slot store. A missing key is not an error for
// Get; it reports ok == false.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetSlot(ctx context.Context, key string) (*Slot, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	Close() error
}

// Options tunes a SQLiteRepository
type Options struct {
	MaxValueBytes int
	QueryTimeout  time.Duration
	WriteTimeout  time.Duration
}

// DefaultOptions returns the options used by New
func DefaultOptions() Options {
	return Options{
		MaxValueBytes: 5 * 1024 * 1024,
		QueryTimeout:  10 * time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, DefaultOptions())
}

// NewWithOptions creates a new SQLite repository instance with explicit options
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStoreError("open database", err)
	}

	// One connection: store operations never overlap, and :memory: stays a single database.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStoreError("run migrations", err)
	}

	logging.Debugf("opened store %s\n", dbPath)
	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get returns the value stored under key
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	slot, err := r.GetSlot(ctx, key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return slot.Value, true, nil
}

// GetSlot retrieves a slot by key
func (r *SQLiteRepository) GetSlot(ctx context.Context, key string) (*Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	query := `SELECT key, value, updated_at FROM slots WHERE key = ?`
	return QuerySingle(ctx, r.db, query, ScanSlot, "slot", key, key)
}

// Set writes value under key in a single statement, replacing any previous value
func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	if r.opts.MaxValueBytes > 0 && len(value) > r.opts.MaxValueBytes {
		return errors.NewStoreError("set "+key, fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(value), r.opts.MaxValueBytes))
	}

	ctx, cancel := r.withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	query := `
	INSERT INTO slots (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	return Execute(ctx, r.db, "set "+key, query, key, value, FormatTimeForDB(r.now()))
}

// Delete removes key. Removing a missing key is a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	return Execute(ctx, r.db, "delete "+key, `DELETE FROM slots WHERE key = ?`, key)
}

func (r *SQLiteRepository) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
