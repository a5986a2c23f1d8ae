package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnavailable reports that the backing store could not be reached.
var ErrUnavailable = errors.New("database unavailable")

var ErrUnknownCollection = errors.New("unknown collection")

// Collection names served by the gateway.
const (
	CollectionCollections = "collections"
	CollectionVotes       = "votes"
	CollectionSales       = "sales"
	CollectionBadges      = "badges"
	CollectionLogos       = "logos"
	CollectionStadiums    = "stadiums"
	CollectionLogs        = "logs"
)

var knownCollections = map[string]bool{
	CollectionCollections: true,
	CollectionVotes:       true,
	CollectionSales:       true,
	CollectionBadges:      true,
	CollectionLogos:       true,
	CollectionStadiums:    true,
	CollectionLogs:        true,
}

func IsKnownCollection(name string) bool {
	return knownCollections[name]
}

// Pool is the subset of pgxpool.Pool used by the services.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// DB is the process-wide Postgres handle. The pool is established on the
// first call to Handle and reused afterwards; a failed attempt leaves the
// handle empty so the next call retries.
type DB struct {
	Pool Pool

	dsn            string
	connectTimeout time.Duration
	mu             sync.Mutex
}

func New(dsn string, connectTimeout time.Duration) *DB {
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	return &DB{dsn: dsn, connectTimeout: connectTimeout}
}

func (db *DB) Handle(ctx context.Context) (Pool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.Pool != nil {
		return db.Pool, nil
	}
	if db.dsn == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is not set", ErrUnavailable)
	}

	connectCtx, cancel := context.WithTimeout(ctx, db.connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, db.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db.Pool = pool
	if err := db.Migrate(ctx); err != nil {
		db.Pool = nil
		pool.Close()
		return nil, Classify(err)
	}

	return db.Pool, nil
}

// Collection returns the pool for a named table or view. Names outside the
// known set are rejected before any connection attempt.
func (db *DB) Collection(ctx context.Context, name string) (Pool, error) {
	if !IsKnownCollection(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return db.Handle(ctx)
}

func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Pool != nil {
		db.Pool.Close()
		db.Pool = nil
	}
}

// Classify maps connection-level failures onto ErrUnavailable and returns
// every other error unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func IsConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}
