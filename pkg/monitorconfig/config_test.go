package monitorconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	config, err := NewAppConfig("/bundle", "container-1", "runc", 5, true)
	assert.NoError(t, err)
	assert.Equal(t, "/bundle", config.Bundle)
	assert.Equal(t, "container-1", config.ContainerID)
	assert.Equal(t, "runc", config.RuntimePath)
	assert.Equal(t, 5, config.SyncFD)
	assert.True(t, config.Debug)
	assert.Equal(t, dir, config.LogDir)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewAppConfigDebugFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("DEBUG", "TRUE")

	config, err := NewAppConfig("/bundle", "container-1", "runc", -1, false)
	assert.NoError(t, err)
	assert.True(t, config.Debug)
}
