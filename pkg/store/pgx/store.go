package pgx

import (
	"context"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// Store implements the relation store on PostgreSQL. Reads run directly on
// the pool and are safe for concurrent use; every SaveMovies call runs in
// its own transaction.
type Store struct {
	conn      pgxIConn
	pool      *pgxpool.Pool
	chunkSize int
}

type StoreOption func(*Store)

// WithChunkSize bounds the number of IDs sent in one array parameter.
func WithChunkSize(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// New opens a connection pool for databaseURL and verifies it with a ping.
func New(ctx context.Context, databaseURL string, opts ...StoreOption) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := NewWithConnection(pool, opts...)
	s.pool = pool
	return s, nil
}

// NewWithConnection wraps an existing connection or pool. Close is a no-op
// for stores created this way.
func NewWithConnection(conn pgxIConn, opts ...StoreOption) *Store {
	s := &Store{
		conn:      conn,
		chunkSize: 1000,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Pool returns the underlying pool, or nil if the store wraps a foreign
// connection.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
