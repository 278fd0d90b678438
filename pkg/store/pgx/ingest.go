package pgx

import (
	"context"
	"fmt"

	pgdb "github.com/OFFIS-RIT/actorlink/internal/db"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	"github.com/jackc/pgx/v5/pgtype"
)

// prepareBatch sanitizes and normalizes names for Postgres and drops cast entries that
// cannot be stored: missing catalog IDs, empty names and repeated actors
// within one movie.
func prepareBatch(movies []common.MovieCredits) []common.MovieCredits {
	out := make([]common.MovieCredits, 0, len(movies))
	for _, m := range movies {
		title := util.NormalizeName(util.SanitizePostgresText(m.Movie.Title))
		if m.Movie.TMDBID <= 0 || title == "" {
			continue
		}

		seen := make(map[int64]struct{}, len(m.Cast))
		cast := make([]common.Actor, 0, len(m.Cast))
		for _, a := range m.Cast {
			name := util.NormalizeName(util.SanitizePostgresText(a.Name))
			if a.TMDBID <= 0 || name == "" {
				continue
			}
			if _, ok := seen[a.TMDBID]; ok {
				continue
			}
			seen[a.TMDBID] = struct{}{}
			cast = append(cast, common.Actor{
				TMDBID:             a.TMDBID,
				Name:               name,
				KnownForDepartment: util.SanitizePostgresText(a.KnownForDepartment),
			})
		}

		out = append(out, common.MovieCredits{
			Movie: common.Movie{TMDBID: m.Movie.TMDBID, Title: title},
			Cast:  cast,
		})
	}
	return out
}

// SaveMovies stores a batch of movies with their casts in one transaction.
func (s *Store) SaveMovies(ctx context.Context, movies []common.MovieCredits) error {
	batch := prepareBatch(movies)
	if len(batch) == 0 {
		return nil
	}

	logger.Debug("[Store][SaveMovies] Saving batch", "movies", len(batch))

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	qtx := pgdb.New(tx)

	links := 0
	for _, m := range batch {
		movieID, err := qtx.UpsertMovie(ctx, pgdb.UpsertMovieParams{
			TmdbMovieID: m.Movie.TMDBID,
			Title:       m.Movie.Title,
		})
		if err != nil {
			return fmt.Errorf("upsert movie %d: %w", m.Movie.TMDBID, err)
		}

		for _, a := range m.Cast {
			actorID, err := qtx.UpsertActor(ctx, pgdb.UpsertActorParams{
				TmdbActorID: a.TMDBID,
				Name:        a.Name,
				KnownForDepartment: pgtype.Text{
					String: a.KnownForDepartment,
					Valid:  a.KnownForDepartment != "",
				},
			})
			if err != nil {
				return fmt.Errorf("upsert actor %d: %w", a.TMDBID, err)
			}
			if err := qtx.InsertMovieActor(ctx, pgdb.InsertMovieActorParams{
				MovieID: movieID,
				ActorID: actorID,
			}); err != nil {
				return fmt.Errorf("link actor %d to movie %d: %w", a.TMDBID, m.Movie.TMDBID, err)
			}
			links++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Debug("[Store][SaveMovies] Batch committed", "movies", len(batch), "links", links)
	return nil
}
