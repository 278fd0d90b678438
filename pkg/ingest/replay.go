package ingest

import (
	"context"
	"fmt"
	"slices"

	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
)

type SnapshotSource interface {
	ListSnapshots(ctx context.Context) ([]int64, error)
	GetSnapshot(ctx context.Context, tmdbID int64) (common.MovieCredits, error)
}

// Replay rebuilds a relation store from archived snapshots without calling
// the catalog. Snapshots are saved in ascending catalog ID order.
func Replay(ctx context.Context, src SnapshotSource, sink Sink, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}
	ids, err := src.ListSnapshots(ctx)
	if err != nil {
		return 0, err
	}
	slices.Sort(ids)

	saved := 0
	err = util.ChunkRange(len(ids), batchSize, func(start, end int) error {
		batch := make([]common.MovieCredits, 0, end-start)
		for _, id := range ids[start:end] {
			mc, err := src.GetSnapshot(ctx, id)
			if err != nil {
				return err
			}
			batch = append(batch, mc)
		}
		if err := sink.SaveMovies(ctx, batch); err != nil {
			return fmt.Errorf("save replayed batch: %w", err)
		}
		saved += len(batch)
		logger.Debug("[Ingest][Replay] Batch saved", "movies", len(batch), "total", saved)
		return nil
	})
	if err != nil {
		return saved, err
	}
	logger.Info("[Ingest][Replay] Finished", "movies", saved)
	return saved, nil
}
