package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"transmute/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs", "parcels.yml")

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"config", "init", path})
	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), path)

	job, err := config.LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "SRC_OID", job.Destination.ReferenceIDKey)

	RootCmd.SetArgs([]string{"config", "init", path})
	assert.Error(t, RootCmd.Execute(), "existing job files are not overwritten")
}

func TestSyncRequiresConfiguration(t *testing.T) {
	RootCmd.SetArgs([]string{"sync"})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration")
}
