package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/transcript"
)

func TestDefaults(t *testing.T) {
	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 50, c.BatchSize)
	assert.Equal(t, classify.Class(5), c.HardClass)
	assert.Equal(t, "./listenability.sqlite3", c.DBPath)
	assert.Equal(t, time.Duration(0), c.CacheTTL)
	assert.Equal(t, 4096, c.NERCacheSize)
	assert.Equal(t, transcript.Source(""), c.Source)
	assert.False(t, c.KeepSentences)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("LISTENABILITY_SCORE_WORKERS", "8")
	t.Setenv("LISTENABILITY_SCORE_SOURCE", "elllo")
	t.Setenv("LISTENABILITY_RESOURCES_HEADWORDS", "/data/hw.csv")
	t.Setenv("LISTENABILITY_CACHE_TTL", "10m")

	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, transcript.ELLLO, c.Source)
	assert.Equal(t, "/data/hw.csv", c.Resources.Headwords)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listenability.yaml")
	content := `
resources:
  headwords: hw.csv
  familiar: dc.csv
score:
  limit: 250
  keep_sentences: true
  hard_class: 7.5
  source: voa
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := New()
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "hw.csv", c.Resources.Headwords)
	assert.Equal(t, "dc.csv", c.Resources.Familiar)
	assert.Equal(t, 250, c.Limit)
	assert.True(t, c.KeepSentences)
	assert.Equal(t, classify.Class(7.5), c.HardClass)
	assert.Equal(t, transcript.VOA, c.Source)
}

func TestReadFileMissing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	cases := map[string]struct {
		key   string
		value interface{}
	}{
		"workers":    {KeyWorkers, 0},
		"batch":      {KeyBatchSize, -1},
		"limit":      {KeyLimit, -5},
		"hard class": {KeyHardClass, 12.0},
		"source":     {KeySource, "bbc"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := New()
			v.Set(tc.key, tc.value)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestEnsureResourcesSkipsWithoutURL(t *testing.T) {
	c, err := Load(New())
	require.NoError(t, err)
	c.Resources.Headwords = filepath.Join(t.TempDir(), "missing.csv")
	assert.NoError(t, c.EnsureResources(context.Background()))
}
