package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OFFIS-RIT/actorlink/pkg/catalog"
	"github.com/OFFIS-RIT/actorlink/pkg/checkpoint"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/leaselock"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Catalog interface {
	MovieExists(ctx context.Context, tmdbID int64) (bool, error)
	MovieDetails(ctx context.Context, tmdbID int64) (catalog.MovieDetails, error)
	MovieCredits(ctx context.Context, tmdbID int64) (catalog.Credits, error)
}

type Sink interface {
	SaveMovies(ctx context.Context, movies []common.MovieCredits) error
}

type Checkpoint interface {
	Done(tmdbID int64) (checkpoint.Outcome, bool, error)
	MarkDone(outcome checkpoint.Outcome, tmdbIDs ...int64) error
}

type Archive interface {
	PutSnapshot(ctx context.Context, movie common.MovieCredits) error
}

type Locker interface {
	WithLease(ctx context.Context, key string, opts leaselock.Options, fn func(ctx context.Context) error) error
}

// Report summarizes one run. Scanned counts every ID in the range,
// including resumed ones.
type Report struct {
	RunID    string        `json:"run_id"`
	From     int64         `json:"from"`
	To       int64         `json:"to"`
	Scanned  int64         `json:"scanned"`
	Resumed  int64         `json:"resumed"`
	Missing  int64         `json:"missing"`
	Skipped  int64         `json:"skipped"`
	Failed   int64         `json:"failed"`
	Saved    int64         `json:"saved"`
	Duration time.Duration `json:"duration"`
}

type counters struct {
	scanned, resumed, missing, skipped, failed, saved atomic.Int64
}

// Pipeline pulls movies and casts from the catalog and writes them to the
// relation store in batches.
type Pipeline struct {
	catalog    Catalog
	sink       Sink
	cfg        Config
	checkpoint Checkpoint
	archive    Archive
	locker     Locker
}

type PipelineOption func(*Pipeline)

func WithCheckpoint(c Checkpoint) PipelineOption {
	return func(p *Pipeline) {
		p.checkpoint = c
	}
}

func WithArchive(a Archive) PipelineOption {
	return func(p *Pipeline) {
		p.archive = a
	}
}

// WithLocker makes Run hold a lease for its range, so two processes never
// ingest the same range at once.
func WithLocker(l Locker) PipelineOption {
	return func(p *Pipeline) {
		p.locker = l
	}
}

func NewPipeline(cat Catalog, sink Sink, cfg Config, opts ...PipelineOption) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	p := &Pipeline{catalog: cat, sink: sink, cfg: cfg}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// RunAll runs every configured range in order.
func (p *Pipeline) RunAll(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(p.cfg.Ranges))
	for _, r := range p.cfg.Ranges {
		rep, err := p.Run(ctx, r.From, r.To)
		reports = append(reports, rep)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// Run ingests catalog IDs [from, to).
//
// IDs are processed concurrently. A failure on a single ID is logged and
// counted, never fatal. Store failures abort the run.
func (p *Pipeline) Run(ctx context.Context, from, to int64) (Report, error) {
	if to < from {
		return Report{}, fmt.Errorf("invalid range [%d, %d)", from, to)
	}
	if p.locker == nil {
		return p.run(ctx, from, to)
	}

	var rep Report
	err := p.locker.WithLease(ctx, leaselock.RangeKey(from, to), leaselock.Options{TokenPrefix: "ingest-"}, func(ctx context.Context) error {
		var err error
		rep, err = p.run(ctx, from, to)
		return err
	})
	return rep, err
}

func (p *Pipeline) run(ctx context.Context, from, to int64) (Report, error) {
	began := time.Now()
	runID := uuid.NewString()
	logger.Info("[Ingest][Run] Starting", "run_id", runID, "from", from, "to", to, "concurrency", p.cfg.Concurrency)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var c counters
	results := make(chan common.MovieCredits, p.cfg.BatchSize)

	var saveErr error
	var collectWG sync.WaitGroup
	collectWG.Add(1)
	go func() {
		defer collectWG.Done()
		saveErr = p.collect(runCtx, results, &c)
		if saveErr != nil {
			cancel(saveErr)
		}
	}()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(p.cfg.Concurrency)
	for id := from; id < to; id++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p.process(gctx, id, results, &c)
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	collectWG.Wait()

	rep := Report{
		RunID:    runID,
		From:     from,
		To:       to,
		Scanned:  c.scanned.Load(),
		Resumed:  c.resumed.Load(),
		Missing:  c.missing.Load(),
		Skipped:  c.skipped.Load(),
		Failed:   c.failed.Load(),
		Saved:    c.saved.Load(),
		Duration: time.Since(began),
	}

	if saveErr != nil {
		logger.Error("[Ingest][Run] Aborted", "run_id", runID, "err", saveErr)
		return rep, saveErr
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	logger.Info(
		"[Ingest][Run] Finished",
		"run_id", runID,
		"saved", rep.Saved,
		"skipped", rep.Skipped,
		"missing", rep.Missing,
		"failed", rep.Failed,
		"resumed", rep.Resumed,
		"duration", rep.Duration,
	)
	return rep, nil
}

func (p *Pipeline) process(ctx context.Context, id int64, out chan<- common.MovieCredits, c *counters) {
	c.scanned.Add(1)

	if p.checkpoint != nil {
		if _, done, err := p.checkpoint.Done(id); err != nil {
			logger.Warn("[Ingest][Process] Checkpoint lookup failed", "tmdb_id", id, "err", err)
		} else if done {
			c.resumed.Add(1)
			ingestMovies.WithLabelValues("resumed").Inc()
			return
		}
	}

	mc, outcome, err := p.fetch(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.failed.Add(1)
		ingestMovies.WithLabelValues("failed").Inc()
		logger.Warn("[Ingest][Process] Failed to fetch movie", "tmdb_id", id, "err", err)
		return
	}

	switch outcome {
	case checkpoint.Missing:
		c.missing.Add(1)
	case checkpoint.Skipped:
		c.skipped.Add(1)
	}
	if outcome != checkpoint.Saved {
		ingestMovies.WithLabelValues(string(outcome)).Inc()
		p.mark(outcome, id)
		return
	}

	if p.archive != nil {
		if err := p.archive.PutSnapshot(ctx, mc); err != nil {
			logger.Warn("[Ingest][Process] Failed to archive snapshot", "tmdb_id", id, "err", err)
		}
	}

	select {
	case out <- mc:
	case <-ctx.Done():
	}
}

// fetch returns the movie with its cast, or the reason it is not stored.
func (p *Pipeline) fetch(ctx context.Context, id int64) (common.MovieCredits, checkpoint.Outcome, error) {
	exists, err := p.catalog.MovieExists(ctx, id)
	if err != nil {
		return common.MovieCredits{}, "", fmt.Errorf("check existence: %w", err)
	}
	if !exists {
		return common.MovieCredits{}, checkpoint.Missing, nil
	}

	details, err := p.catalog.MovieDetails(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return common.MovieCredits{}, checkpoint.Missing, nil
	}
	if err != nil {
		return common.MovieCredits{}, "", fmt.Errorf("fetch details: %w", err)
	}
	if !p.cfg.Filter.IsFeatureFilm(details) {
		logger.Debug("[Ingest][Process] Skipping non-feature film", "tmdb_id", id, "title", details.Title)
		return common.MovieCredits{}, checkpoint.Skipped, nil
	}

	credits, err := p.catalog.MovieCredits(ctx, id)
	if err != nil {
		return common.MovieCredits{}, "", fmt.Errorf("fetch credits: %w", err)
	}
	if details.ID == 0 {
		details.ID = id
	}
	return catalog.ToMovieCredits(details, credits), checkpoint.Saved, nil
}

func (p *Pipeline) mark(outcome checkpoint.Outcome, ids ...int64) {
	if p.checkpoint == nil || len(ids) == 0 {
		return
	}
	if err := p.checkpoint.MarkDone(outcome, ids...); err != nil {
		logger.Warn("[Ingest][Checkpoint] Failed to record progress", "outcome", outcome, "ids", len(ids), "err", err)
	}
}

// collect batches results and saves them. After the first save failure it
// keeps draining in so producers never block, and returns that failure.
func (p *Pipeline) collect(ctx context.Context, in <-chan common.MovieCredits, c *counters) error {
	batch := make([]common.MovieCredits, 0, p.cfg.BatchSize)
	var failed error

	flush := func() {
		if len(batch) == 0 || failed != nil {
			batch = batch[:0]
			return
		}
		if err := p.sink.SaveMovies(ctx, batch); err != nil {
			failed = fmt.Errorf("save batch of %d movies: %w", len(batch), err)
			batch = batch[:0]
			return
		}
		ingestBatches.Inc()
		ingestMovies.WithLabelValues(string(checkpoint.Saved)).Add(float64(len(batch)))
		c.saved.Add(int64(len(batch)))

		ids := make([]int64, len(batch))
		for i, m := range batch {
			ids[i] = m.Movie.TMDBID
		}
		p.mark(checkpoint.Saved, ids...)
		logger.Debug("[Ingest][Collect] Batch saved", "movies", len(batch))
		batch = batch[:0]
	}

	for mc := range in {
		if failed != nil {
			continue
		}
		batch = append(batch, mc)
		if len(batch) >= p.cfg.BatchSize {
			flush()
		}
	}
	flush()
	return failed
}
