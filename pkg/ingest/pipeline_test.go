package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/OFFIS-RIT/actorlink/pkg/catalog"
	"github.com/OFFIS-RIT/actorlink/pkg/checkpoint"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/leaselock"

	"github.com/stretchr/testify/require"
)

// fakeCatalog: IDs divisible by 3 do not exist, IDs divisible by 5 are
// documentaries, IDs divisible by 7 fail to load credits. Every other ID
// is a feature film with two cast members.
type fakeCatalog struct {
	mu    sync.Mutex
	calls map[int64]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{calls: make(map[int64]int)}
}

func (f *fakeCatalog) touch(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
}

func (f *fakeCatalog) MovieExists(_ context.Context, id int64) (bool, error) {
	f.touch(id)
	return id%3 != 0, nil
}

func (f *fakeCatalog) MovieDetails(_ context.Context, id int64) (catalog.MovieDetails, error) {
	date := "2000-01-01"
	d := catalog.MovieDetails{ID: id, Title: fmt.Sprintf("Movie %d", id), ReleaseDate: &date}
	if id%5 == 0 {
		d.Genres = []catalog.Genre{{ID: catalog.GenreDocumentary}}
	}
	return d, nil
}

func (f *fakeCatalog) MovieCredits(_ context.Context, id int64) (catalog.Credits, error) {
	if id%7 == 0 {
		return catalog.Credits{}, errors.New("credits unavailable")
	}
	return catalog.Credits{ID: id, Cast: []catalog.CastMember{
		{ID: 1, Name: "Lead"},
		{ID: id * 10, Name: fmt.Sprintf("Actor %d", id)},
	}}, nil
}

type fakeSink struct {
	mu      sync.Mutex
	batches [][]common.MovieCredits
	failAt  int
	err     error
}

func (s *fakeSink) SaveMovies(_ context.Context, movies []common.MovieCredits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil && len(s.batches) == s.failAt {
		return s.err
	}
	cp := make([]common.MovieCredits, len(movies))
	copy(cp, movies)
	s.batches = append(s.batches, cp)
	return nil
}

func (s *fakeSink) ids() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, b := range s.batches {
		for _, m := range b {
			ids = append(ids, m.Movie.TMDBID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type memArchive struct {
	mu    sync.Mutex
	snaps map[int64]common.MovieCredits
}

func newMemArchive() *memArchive {
	return &memArchive{snaps: make(map[int64]common.MovieCredits)}
}

func (a *memArchive) PutSnapshot(_ context.Context, m common.MovieCredits) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snaps[m.Movie.TMDBID] = m
	return nil
}

func (a *memArchive) ListSnapshots(context.Context) ([]int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]int64, 0, len(a.snaps))
	for id := range a.snaps {
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *memArchive) GetSnapshot(_ context.Context, id int64) (common.MovieCredits, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.snaps[id]
	if !ok {
		return common.MovieCredits{}, errors.New("missing snapshot")
	}
	return m, nil
}

// expectedSaved lists IDs in [from, to) the fake catalog lets through.
func expectedSaved(from, to int64) []int64 {
	var ids []int64
	for id := from; id < to; id++ {
		if id%3 == 0 || id%5 == 0 || id%7 == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Concurrency = 4
	cfg.BatchSize = 3
	return cfg
}

func TestPipeline_Run(t *testing.T) {
	sink := &fakeSink{}
	p := NewPipeline(newFakeCatalog(), sink, testConfig())

	rep, err := p.Run(context.Background(), 1, 31)
	require.NoError(t, err)
	require.Equal(t, expectedSaved(1, 31), sink.ids())

	require.NotEmpty(t, rep.RunID)
	require.Equal(t, int64(30), rep.Scanned)
	require.Equal(t, int64(10), rep.Missing) // 3,6,...,30
	require.Equal(t, int64(4), rep.Skipped)  // 5,10,20,25
	require.Equal(t, int64(3), rep.Failed)   // 7,14,28
	require.Equal(t, int64(13), rep.Saved)
	require.Equal(t, rep.Scanned, rep.Missing+rep.Skipped+rep.Failed+rep.Saved)

	for _, b := range sink.batches {
		require.LessOrEqual(t, len(b), 3)
	}
}

func TestPipeline_EmptyRange(t *testing.T) {
	sink := &fakeSink{}
	p := NewPipeline(newFakeCatalog(), sink, testConfig())

	rep, err := p.Run(context.Background(), 10, 10)
	require.NoError(t, err)
	require.Zero(t, rep.Scanned)
	require.Empty(t, sink.batches)

	_, err = p.Run(context.Background(), 10, 5)
	require.Error(t, err)
}

func TestPipeline_SaveFailureAbortsRun(t *testing.T) {
	errDisk := errors.New("disk full")
	sink := &fakeSink{failAt: 1, err: errDisk}
	p := NewPipeline(newFakeCatalog(), sink, testConfig())

	_, err := p.Run(context.Background(), 1, 200)
	require.ErrorIs(t, err, errDisk)
	require.Len(t, sink.batches, 1)
}

func TestPipeline_CheckpointResumes(t *testing.T) {
	cp, err := checkpoint.Open(checkpoint.Config{InMemory: true})
	require.NoError(t, err)
	defer cp.Close()

	cat := newFakeCatalog()
	sink := &fakeSink{}
	p := NewPipeline(cat, sink, testConfig(), WithCheckpoint(cp))

	_, err = p.Run(context.Background(), 1, 31)
	require.NoError(t, err)

	counts, err := cp.Counts()
	require.NoError(t, err)
	require.Equal(t, 13, counts[checkpoint.Saved])
	require.Equal(t, 4, counts[checkpoint.Skipped])
	require.Equal(t, 10, counts[checkpoint.Missing])

	second := &fakeSink{}
	p = NewPipeline(cat, second, testConfig(), WithCheckpoint(cp))
	rep, err := p.Run(context.Background(), 1, 31)
	require.NoError(t, err)
	require.Equal(t, int64(27), rep.Resumed)
	require.Equal(t, int64(3), rep.Failed, "failed IDs are retried on the next run")
	require.Empty(t, second.batches)
}

func TestPipeline_ArchiveAndReplay(t *testing.T) {
	archive := newMemArchive()
	p := NewPipeline(newFakeCatalog(), &fakeSink{}, testConfig(), WithArchive(archive))

	_, err := p.Run(context.Background(), 1, 31)
	require.NoError(t, err)
	require.Len(t, archive.snaps, 13)

	replayed := &fakeSink{}
	n, err := Replay(context.Background(), archive, replayed, 5)
	require.NoError(t, err)
	require.Equal(t, 13, n)
	require.Equal(t, expectedSaved(1, 31), replayed.ids())
	require.Len(t, replayed.batches, 3)
}

type recordingLocker struct {
	keys []string
	err  error
}

func (l *recordingLocker) WithLease(ctx context.Context, key string, _ leaselock.Options, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

func TestPipeline_RunHoldsLease(t *testing.T) {
	locker := &recordingLocker{}
	sink := &fakeSink{}
	p := NewPipeline(newFakeCatalog(), sink, testConfig(), WithLocker(locker))

	_, err := p.Run(context.Background(), 1, 11)
	require.NoError(t, err)
	require.Equal(t, []string{"ingest:1-11"}, locker.keys)
	require.NotEmpty(t, sink.batches)

	locker.err = leaselock.ErrBusy
	_, err = p.Run(context.Background(), 1, 11)
	require.ErrorIs(t, err, leaselock.ErrBusy)
}

func TestPipeline_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(newFakeCatalog(), &fakeSink{}, testConfig())
	_, err := p.Run(ctx, 1, 1000)
	require.ErrorIs(t, err, context.Canceled)
}
