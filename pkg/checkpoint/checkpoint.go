// Package checkpoint remembers which catalog IDs an ingestion run already
// handled, so restarted runs skip them.
package checkpoint

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	"github.com/dgraph-io/badger/v4"
)

// Outcome records why an ID is done.
type Outcome string

const (
	Saved   Outcome = "saved"
	Skipped Outcome = "skipped"
	Missing Outcome = "missing"
)

const keyPrefix = "movie/"

type Config struct {
	// Path is the badger directory. Ignored when InMemory is true.
	Path       string
	InMemory   bool
	SyncWrites bool
}

type Checkpoint struct {
	db *badger.DB
}

type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any) {
	logger.Error("[Checkpoint] " + fmt.Sprintf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...any) {
	logger.Warn("[Checkpoint] " + fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(format string, args ...any) {}

func (badgerLogger) Debugf(format string, args ...any) {}

func Open(cfg Config) (*Checkpoint, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("checkpoint path is required for persistent storage")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create checkpoint directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	return &Checkpoint{db: db}, nil
}

func key(tmdbID int64) []byte {
	return []byte(keyPrefix + strconv.FormatInt(tmdbID, 10))
}

// Done reports whether tmdbID was recorded, and with which outcome.
func (c *Checkpoint) Done(tmdbID int64) (Outcome, bool, error) {
	var out Outcome
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(tmdbID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = Outcome(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// MarkDone records all ids with the same outcome in one write batch.
func (c *Checkpoint) MarkDone(outcome Outcome, tmdbIDs ...int64) error {
	if len(tmdbIDs) == 0 {
		return nil
	}
	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for _, id := range tmdbIDs {
		if err := wb.Set(key(id), []byte(outcome)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Counts returns how many IDs were recorded per outcome.
func (c *Checkpoint) Counts() (map[Outcome]int, error) {
	counts := make(map[Outcome]int)
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				counts[Outcome(val)]++
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return counts, err
}

// Reset forgets every recorded ID.
func (c *Checkpoint) Reset() error {
	return c.db.DropPrefix([]byte(keyPrefix))
}

func (c *Checkpoint) Close() error {
	return c.db.Close()
}
