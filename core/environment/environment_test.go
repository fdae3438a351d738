package environment

import (
	"os"
	"path/filepath"
	"testing"

	"transmute/core/config"
	"transmute/core/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobYAML = `portal:
  url: https://job.example.com/portal
  username: job-user
  password: job-pass
source:
  feature-service-item-id: src
  layer-index: 0
destination:
  feature-service-item-id: dst
  layer-index: 1
  reference-id-key: SRC_OID
`

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newEnv(t *testing.T, o Overrides) *Environment {
	t.Helper()
	o.ConfigDir = t.TempDir()
	e := New(o)
	t.Cleanup(e.Close)
	return e
}

func TestPortalConfig(t *testing.T) {
	t.Setenv("PORTAL_URL", "https://env.example.com/portal")
	t.Setenv("AFD_PORTAL_USERNAME", "env-user")
	t.Setenv("AFD_PORTAL_PASSWORD", "env-pass")

	t.Run("environment only", func(t *testing.T) {
		pc, err := newEnv(t, Overrides{}).PortalConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com/portal", pc.URL)
		assert.Equal(t, "env-user", pc.Username)
		assert.Equal(t, "env-pass", pc.Password)
	})

	t.Run("job file wins over environment", func(t *testing.T) {
		pc, err := newEnv(t, Overrides{JobPath: writeJob(t, jobYAML)}).PortalConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://job.example.com/portal", pc.URL)
		assert.Equal(t, "job-user", pc.Username)
	})

	t.Run("flags win over job file", func(t *testing.T) {
		pc, err := newEnv(t, Overrides{
			JobPath:   writeJob(t, jobYAML),
			PortalURL: "https://flag.example.com/portal",
			Username:  "flag-user",
			Password:  "flag-pass",
		}).PortalConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com/portal", pc.URL)
		assert.Equal(t, "flag-user", pc.Username)
		assert.Equal(t, "flag-pass", pc.Password)
	})

	t.Run("username without password is ignored", func(t *testing.T) {
		pc, err := newEnv(t, Overrides{Username: "flag-user"}).PortalConfig()
		require.NoError(t, err)
		assert.Equal(t, "env-user", pc.Username)
	})
}

func TestPortalConfig_MissingURL(t *testing.T) {
	t.Setenv("PORTAL_URL", "")
	_, err := newEnv(t, Overrides{}).PortalConfig()
	assert.Error(t, err)
}

func TestJob(t *testing.T) {
	e := newEnv(t, Overrides{JobPath: writeJob(t, jobYAML)})
	job, err := e.Job()
	require.NoError(t, err)
	assert.Equal(t, 1, job.Destination.Index())

	again, err := e.Job()
	require.NoError(t, err)
	assert.Same(t, job, again)

	_, err = newEnv(t, Overrides{}).Job()
	assert.ErrorIs(t, err, config.ErrInvalidJob)
}

func TestConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	e := newEnv(t, Overrides{BackupDir: dir, Verbose: true})

	cfg, err := e.Config()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Backup.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)

	backups, err := e.Backups()
	require.NoError(t, err)
	assert.True(t, backups.Enabled())
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv("DATABASE_ENABLED", "false")
		e := newEnv(t, Overrides{})

		rec, err := e.History()
		require.NoError(t, err)
		assert.IsType(t, history.Nop{}, rec)

		_, err = e.HistoryRepository()
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("DATABASE_ENABLED", "true")
		t.Setenv("DATABASE_DRIVER", "sqlite")
		t.Setenv("DATABASE_NAME", filepath.Join(t.TempDir(), "history.db"))
		e := newEnv(t, Overrides{})

		rec, err := e.History()
		require.NoError(t, err)
		assert.IsType(t, &history.Repository{}, rec)
	})

	t.Run("unreachable database falls back", func(t *testing.T) {
		t.Setenv("DATABASE_ENABLED", "true")
		t.Setenv("DATABASE_DRIVER", "oracle")
		e := newEnv(t, Overrides{})

		rec, err := e.History()
		require.NoError(t, err)
		assert.IsType(t, history.Nop{}, rec)
	})
}
