package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repohub/repohub/internal/config"
)

func TestInitWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = ""
		initForce = false
	})

	require.NoError(t, runInit(initCmd, nil))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), loaded)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = ""
		initForce = false
	})

	require.NoError(t, runInit(initCmd, nil))

	err := runInit(initCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initForce = true
	assert.NoError(t, runInit(initCmd, nil))
}
