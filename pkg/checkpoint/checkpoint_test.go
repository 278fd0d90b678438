package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Checkpoint {
	t.Helper()
	c, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCheckpoint_MarkAndQuery(t *testing.T) {
	c := openInMemory(t)

	_, done, err := c.Done(232000)
	require.NoError(t, err)
	require.False(t, done)

	require.NoError(t, c.MarkDone(Saved, 232000, 232001))
	require.NoError(t, c.MarkDone(Skipped, 232002))
	require.NoError(t, c.MarkDone(Missing))

	outcome, done, err := c.Done(232001)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, Saved, outcome)

	outcome, done, err = c.Done(232002)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, Skipped, outcome)

	counts, err := c.Counts()
	require.NoError(t, err)
	require.Equal(t, map[Outcome]int{Saved: 2, Skipped: 1}, counts)
}

func TestCheckpoint_Reset(t *testing.T) {
	c := openInMemory(t)
	require.NoError(t, c.MarkDone(Saved, 1, 2, 3))
	require.NoError(t, c.Reset())

	counts, err := c.Counts()
	require.NoError(t, err)
	require.Empty(t, counts)
}

func TestCheckpoint_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, c.MarkDone(Missing, 42))
	require.NoError(t, c.Close())

	c, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer c.Close()

	outcome, done, err := c.Done(42)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, Missing, outcome)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}
