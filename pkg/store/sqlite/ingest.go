package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
)

const (
	upsertMovieSQL = `
INSERT INTO movies (tmdb_movie_id, title) VALUES (?, ?)
ON CONFLICT (tmdb_movie_id) DO UPDATE SET title = excluded.title
RETURNING movie_id`

	upsertActorSQL = `
INSERT INTO actors (tmdb_actor_id, name, known_for_department) VALUES (?, ?, ?)
ON CONFLICT (tmdb_actor_id) DO UPDATE SET tmdb_actor_id = excluded.tmdb_actor_id
RETURNING actor_id`

	insertLinkSQL = `
INSERT INTO movie_actors (movie_id, actor_id) VALUES (?, ?)
ON CONFLICT (movie_id, actor_id) DO NOTHING`
)

// SaveMovies stores a batch of movies with their casts in one transaction.
// Names and titles are whitespace-normalized. Cast entries without a
// catalog ID or name are skipped.
func (s *Store) SaveMovies(ctx context.Context, movies []common.MovieCredits) error {
	if len(movies) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	movieStmt, err := tx.PrepareContext(ctx, upsertMovieSQL)
	if err != nil {
		return err
	}
	defer movieStmt.Close()
	actorStmt, err := tx.PrepareContext(ctx, upsertActorSQL)
	if err != nil {
		return err
	}
	defer actorStmt.Close()
	linkStmt, err := tx.PrepareContext(ctx, insertLinkSQL)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	saved, links := 0, 0
	for _, m := range movies {
		title := util.NormalizeName(m.Movie.Title)
		if m.Movie.TMDBID <= 0 || title == "" {
			continue
		}
		var movieID int64
		if err := movieStmt.QueryRowContext(ctx, m.Movie.TMDBID, title).Scan(&movieID); err != nil {
			return fmt.Errorf("upsert movie %d: %w", m.Movie.TMDBID, err)
		}
		saved++

		for _, a := range m.Cast {
			name := util.NormalizeName(a.Name)
			if a.TMDBID <= 0 || name == "" {
				continue
			}
			dept := sql.NullString{String: a.KnownForDepartment, Valid: a.KnownForDepartment != ""}
			var actorID int64
			if err := actorStmt.QueryRowContext(ctx, a.TMDBID, name, dept).Scan(&actorID); err != nil {
				return fmt.Errorf("upsert actor %d: %w", a.TMDBID, err)
			}
			if _, err := linkStmt.ExecContext(ctx, movieID, actorID); err != nil {
				return fmt.Errorf("link actor %d to movie %d: %w", a.TMDBID, m.Movie.TMDBID, err)
			}
			links++
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("[Store][SaveMovies] Batch committed", "movies", saved, "links", links)
	return nil
}
