package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/actorlink/internal/db/migrations"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/graph"
	pgxstore "github.com/OFFIS-RIT/actorlink/pkg/store/pgx"
	sqlitestore "github.com/OFFIS-RIT/actorlink/pkg/store/sqlite"
)

// RelationStore is the read side of the movie/actor relation. Unknown
// identifiers yield empty results or found == false, never an error.
// Errors are reserved for connectivity and query failures.
type RelationStore interface {
	GetActorIDByName(ctx context.Context, name string) (int64, bool, error)
	GetActorNameByID(ctx context.Context, actorID int64) (string, bool, error)
	GetMovieIDsForActor(ctx context.Context, actorID int64) ([]int64, error)
	GetActorIDsForMovie(ctx context.Context, movieID int64) ([]int64, error)
	GetMovieTitlesByIDs(ctx context.Context, movieIDs []int64) (map[int64]string, error)
}

// IngestStore is the write side used only by ingestion. SaveMovies stores
// one batch in a single transaction. Movies and actors already present are
// kept; a (movie, actor) link is stored at most once.
type IngestStore interface {
	SaveMovies(ctx context.Context, movies []common.MovieCredits) error
}

type Store interface {
	RelationStore
	IngestStore
	Stats(ctx context.Context) (common.Stats, error)
	Close()
}

var (
	_ Store         = (*pgxstore.Store)(nil)
	_ Store         = (*sqlitestore.Store)(nil)
	_ graph.IDStore = RelationStore(nil)
)

const sqlitePrefix = "sqlite://"

// ParseURL maps a DATABASE_URL onto a migration dialect and driver DSN.
// postgres:// and postgresql:// URLs are passed through; sqlite://<path>
// yields the bare file path.
func ParseURL(databaseURL string) (migrations.Dialect, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return migrations.Postgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, sqlitePrefix):
		path := strings.TrimPrefix(databaseURL, sqlitePrefix)
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", databaseURL)
		}
		return migrations.SQLite, path, nil
	case databaseURL == "":
		return "", "", fmt.Errorf("DATABASE_URL is not set")
	default:
		return "", "", fmt.Errorf("unsupported database url scheme in %q", databaseURL)
	}
}

// Open connects to the backend selected by databaseURL.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case migrations.Postgres:
		return pgxstore.New(ctx, dsn)
	default:
		return sqlitestore.New(ctx, dsn)
	}
}

// Migrate applies the schema for databaseURL in the given direction.
func Migrate(databaseURL string, dir migrations.Direction) error {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return err
	}
	return migrations.Run(dialect, dsn, dir)
}
