// Package worker assembles the ingest pipeline from environment
// configuration. The worker binary, the server bootstrap and the CLI share
// it.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/actorlink/internal/storage"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/catalog"
	"github.com/OFFIS-RIT/actorlink/pkg/checkpoint"
	"github.com/OFFIS-RIT/actorlink/pkg/ingest"
	"github.com/OFFIS-RIT/actorlink/pkg/leaselock"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
	"github.com/OFFIS-RIT/actorlink/pkg/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Env holds everything the pipeline reads from the environment.
type Env struct {
	CatalogBaseURL    string
	CatalogAPIKey     string
	RequestsPerSecond int
	ConfigPath        string
	CheckpointDir     string
	SnapshotBucket    string
	// Concurrency and BatchSize override the config file when positive.
	Concurrency int
	BatchSize   int
}

func EnvFromOS() Env {
	return Env{
		CatalogBaseURL:    util.GetEnvString("TMDB_BASE_URL", catalog.DefaultBaseURL),
		CatalogAPIKey:     util.GetEnv("TMDB_API_KEY"),
		RequestsPerSecond: util.GetEnvInt("TMDB_RATE_LIMIT", 40, 1),
		ConfigPath:        util.GetEnv("INGEST_CONFIG"),
		CheckpointDir:     util.GetEnv("CHECKPOINT_DIR"),
		SnapshotBucket:    util.GetEnv("AWS_BUCKET"),
		Concurrency:       util.GetEnvInt("TMDB_CONCURRENCY", 0, 0),
		BatchSize:         util.GetEnvInt("INGEST_BATCH_SIZE", 0, 0),
	}
}

// Pipeline is an assembled ingest pipeline together with the resources it
// owns.
type Pipeline struct {
	*ingest.Pipeline
	Config     ingest.Config
	Archive    *storage.SnapshotArchive
	checkpoint *checkpoint.Checkpoint
}

func (p *Pipeline) Close() error {
	if p.checkpoint == nil {
		return nil
	}
	return p.checkpoint.Close()
}

type pooled interface {
	Pool() *pgxpool.Pool
}

// NewArchive returns nil without error when no snapshot bucket is set.
func NewArchive(ctx context.Context, env Env) (*storage.SnapshotArchive, error) {
	if env.SnapshotBucket == "" {
		return nil, nil
	}
	client, err := storage.NewS3Client(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewSnapshotArchive(client, env.SnapshotBucket), nil
}

// NewPipeline wires the catalog client, the optional checkpoint, the
// optional snapshot archive and, on Postgres, the range lease into a
// pipeline writing to st.
func NewPipeline(ctx context.Context, env Env, st store.Store) (*Pipeline, error) {
	if env.CatalogAPIKey == "" {
		return nil, errors.New("TMDB_API_KEY is not set")
	}

	cfg, err := ingest.LoadConfig(env.ConfigPath)
	if err != nil {
		return nil, err
	}
	if env.Concurrency > 0 {
		cfg.Concurrency = env.Concurrency
	}
	if env.BatchSize > 0 {
		cfg.BatchSize = env.BatchSize
	}

	client, err := catalog.NewClient(catalog.ClientParams{
		BaseURL:           env.CatalogBaseURL,
		APIKey:            env.CatalogAPIKey,
		RequestsPerSecond: float64(env.RequestsPerSecond),
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}

	p := &Pipeline{Config: cfg}
	var opts []ingest.PipelineOption

	if env.CheckpointDir != "" {
		cp, err := checkpoint.Open(checkpoint.Config{Path: env.CheckpointDir})
		if err != nil {
			return nil, err
		}
		p.checkpoint = cp
		opts = append(opts, ingest.WithCheckpoint(cp))
	}

	archive, err := NewArchive(ctx, env)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if archive != nil {
		p.Archive = archive
		opts = append(opts, ingest.WithArchive(archive))
	}

	if pg, ok := st.(pooled); ok {
		opts = append(opts, ingest.WithLocker(leaselock.New(pg.Pool())))
	}

	logger.Debug(
		"[Worker] Pipeline assembled",
		"checkpoint", env.CheckpointDir != "",
		"archive", archive != nil,
		"ranges", len(cfg.Ranges),
	)
	p.Pipeline = ingest.NewPipeline(client, st, cfg, opts...)
	return p, nil
}
