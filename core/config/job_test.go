package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJob(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadJob(t *testing.T) {
	path := writeJob(t, `
portal:
  url: https://portal.example.com/portal
  username: analyst
source:
  feature-service-item-id: abc
  layer-index: 0
destination:
  feature-service-item-id: def
  layer-index: 2
  reference-id-key: SRC_OID
`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.com/portal", job.Portal.URL)
	assert.Equal(t, "analyst", job.Portal.Username)
	assert.Equal(t, "abc", job.Source.ItemID)
	assert.Equal(t, 0, job.Source.Index())
	assert.Equal(t, 2, job.Destination.Index())
	assert.Equal(t, "SRC_OID", job.Destination.ReferenceIDKey)
}

func TestLoadJob_MissingKeys(t *testing.T) {
	path := writeJob(t, `
source:
  feature-service-item-id: abc
destination:
  layer-index: 0
`)

	_, err := LoadJob(path)
	require.ErrorIs(t, err, ErrInvalidJob)
	assert.Contains(t, err.Error(), "source.layer-index")
	assert.Contains(t, err.Error(), "destination.feature-service-item-id")
	assert.Contains(t, err.Error(), "destination.reference-id-key")
	assert.NotContains(t, err.Error(), "destination.layer-index")
}

func TestLoadJob_NegativeIndex(t *testing.T) {
	path := writeJob(t, `
source: {feature-service-item-id: a, layer-index: -1}
destination: {feature-service-item-id: b, layer-index: 0, reference-id-key: REF}
`)
	_, err := LoadJob(path)
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestLoadJob_Unreadable(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadJob(writeJob(t, "source: [unterminated"))
	assert.Error(t, err)
}

func TestWriteSampleJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs", "sample.yml")
	require.NoError(t, WriteSampleJob(path))

	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, SampleJob(), job)

	assert.Error(t, WriteSampleJob(path), "existing files are not overwritten")
}
