package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/actorlink/pkg/catalog"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, int64(30000), cfg.Ranges[0].Len())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ranges:
  - from: 100
    to: 200
  - from: 500
    to: 550
filter:
  skip_adult: true
  excluded_genres: [99]
concurrency: 4
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []Range{{From: 100, To: 200}, {From: 500, To: 550}}, cfg.Ranges)
	require.True(t, cfg.Filter.SkipAdult)
	require.Equal(t, []int64{catalog.GenreDocumentary}, cfg.Filter.ExcludedGenres)
	require.Equal(t, 4, cfg.Concurrency)
	require.Equal(t, 50, cfg.BatchSize, "unset fields keep defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ranges:\n  - from: 10\n    to: 5\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
