package pgx

import (
	"context"
	"errors"

	pgdb "github.com/OFFIS-RIT/actorlink/internal/db"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// GetActorIDByName resolves an exact actor name. When several actors share
// a name the lowest internal ID wins.
func (s *Store) GetActorIDByName(ctx context.Context, name string) (int64, bool, error) {
	q := pgdb.New(s.conn)
	id, err := q.GetActorIDByName(ctx, name)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) GetActorNameByID(ctx context.Context, actorID int64) (string, bool, error) {
	q := pgdb.New(s.conn)
	name, err := q.GetActorNameByID(ctx, actorID)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (s *Store) GetMovieIDsForActor(ctx context.Context, actorID int64) ([]int64, error) {
	return pgdb.New(s.conn).GetMovieIDsForActor(ctx, actorID)
}

func (s *Store) GetActorIDsForMovie(ctx context.Context, movieID int64) ([]int64, error) {
	return pgdb.New(s.conn).GetActorIDsForMovie(ctx, movieID)
}

// GetMovieTitlesByIDs returns the titles of the known IDs. Unknown IDs are
// absent from the result.
func (s *Store) GetMovieTitlesByIDs(ctx context.Context, movieIDs []int64) (map[int64]string, error) {
	ids := util.DedupeInt64(movieIDs)
	out := make(map[int64]string, len(ids))
	q := pgdb.New(s.conn)
	err := util.ChunkRange(len(ids), s.chunkSize, func(start, end int) error {
		rows, err := q.GetMovieTitlesByIDs(ctx, ids[start:end])
		if err != nil {
			return err
		}
		for _, r := range rows {
			out[r.MovieID] = r.Title
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (common.Stats, error) {
	row, err := pgdb.New(s.conn).GetStats(ctx)
	if err != nil {
		return common.Stats{}, err
	}
	return common.Stats{Actors: row.Actors, Movies: row.Movies, Links: row.Links}, nil
}
