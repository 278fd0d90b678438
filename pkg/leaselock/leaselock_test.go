package leaselock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	key string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.key
	return nil
}

// fakeLeases mimics the ingest_leases table for a single key.
type fakeLeases struct {
	mu        sync.Mutex
	holder    string
	renewFail bool
	released  []string
}

func (f *fakeLeases) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	switch {
	case strings.Contains(sql, "INSERT INTO ingest_leases"):
		if f.holder != "" && f.holder != token {
			return fakeRow{err: pgx.ErrNoRows}
		}
		f.holder = token
		return fakeRow{key: key}
	case strings.Contains(sql, "UPDATE ingest_leases"):
		if f.renewFail || f.holder != token {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{key: key}
	}
	return fakeRow{err: errors.New("unexpected query")}
}

func (f *fakeLeases) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := args[1].(string)
	if f.holder == token {
		f.holder = ""
	}
	f.released = append(f.released, token)
	return pgconn.CommandTag{}, nil
}

func TestWithLease_RunsAndReleases(t *testing.T) {
	db := &fakeLeases{}
	c := &Client{db: db}

	ran := false
	err := c.WithLease(context.Background(), RangeKey(232000, 262000), Options{TokenPrefix: "test-"}, func(ctx context.Context) error {
		ran = true
		if db.holder == "" || !strings.HasPrefix(db.holder, "test-") {
			t.Fatalf("expected lease to be held, holder=%q", db.holder)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("expected fn to run")
	}
	if db.holder != "" {
		t.Fatalf("expected lease released, holder=%q", db.holder)
	}
	if len(db.released) != 1 {
		t.Fatalf("expected one release, got %d", len(db.released))
	}
}

func TestAcquire_BusyWithoutWait(t *testing.T) {
	db := &fakeLeases{holder: "someone-else"}
	c := &Client{db: db}

	_, err := c.Acquire(context.Background(), "ingest:1-2", Options{})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestAcquire_WaitHonoursContext(t *testing.T) {
	db := &fakeLeases{holder: "someone-else"}
	c := &Client{db: db}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := c.Acquire(ctx, "ingest:1-2", Options{Wait: true, WaitInterval: 5 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestAcquire_EmptyKey(t *testing.T) {
	c := &Client{db: &fakeLeases{}}
	if _, err := c.Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestLease_LostOnFailedRenew(t *testing.T) {
	db := &fakeLeases{renewFail: true}
	c := &Client{db: db}

	lease, err := c.Acquire(context.Background(), "ingest:1-2", Options{TTL: 2 * time.Second, RenewEvery: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lease.Release(context.Background())

	select {
	case <-lease.Context.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected lease context to be canceled")
	}
	if cause := context.Cause(lease.Context); !errors.Is(cause, ErrLost) {
		t.Fatalf("expected ErrLost cause, got %v", cause)
	}
}

func TestRangeKey(t *testing.T) {
	if got := RangeKey(232000, 262000); got != "ingest:232000-262000" {
		t.Fatalf("unexpected key %q", got)
	}
}
