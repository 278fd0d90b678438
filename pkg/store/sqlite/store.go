// Package sqlite implements the relation store on a single SQLite file,
// the layout the catalog ingestion originally wrote to.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/actorlink/internal/db/migrations"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite caps host parameters per statement.
const maxParams = 500

type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies migrations.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if err := migrations.RunSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
}

func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		logger.Warn("[Store][Close] Failed to close sqlite database", "err", err)
	}
}

func (s *Store) GetActorIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT actor_id FROM actors WHERE name = ? ORDER BY actor_id LIMIT 1`, name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) GetActorNameByID(ctx context.Context, actorID int64) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM actors WHERE actor_id = ?`, actorID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (s *Store) GetMovieIDsForActor(ctx context.Context, actorID int64) ([]int64, error) {
	return s.queryIDs(ctx,
		`SELECT movie_id FROM movie_actors WHERE actor_id = ? ORDER BY movie_actor_id`, actorID)
}

func (s *Store) GetActorIDsForMovie(ctx context.Context, movieID int64) ([]int64, error) {
	return s.queryIDs(ctx,
		`SELECT actor_id FROM movie_actors WHERE movie_id = ? ORDER BY movie_actor_id`, movieID)
}

func (s *Store) queryIDs(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) GetMovieTitlesByIDs(ctx context.Context, movieIDs []int64) (map[int64]string, error) {
	ids := util.DedupeInt64(movieIDs)
	out := make(map[int64]string, len(ids))
	err := util.ChunkRange(len(ids), maxParams, func(start, end int) error {
		chunk := ids[start:end]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		query := `SELECT movie_id, title FROM movies WHERE movie_id IN (` +
			strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",") + `)`

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				id    int64
				title string
			)
			if err := rows.Scan(&id, &title); err != nil {
				return err
			}
			out[id] = title
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (common.Stats, error) {
	var st common.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM actors),
			(SELECT count(*) FROM movies),
			(SELECT count(*) FROM movie_actors)`,
	).Scan(&st.Actors, &st.Movies, &st.Links)
	return st, err
}
