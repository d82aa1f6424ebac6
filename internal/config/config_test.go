package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("ESTATELY_DB.NAME", "estately")
	t.Setenv("ESTATELY_DB.USER", "estately")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 100, cfg.DB.QueueLimit)
	assert.True(t, cfg.Limiter.Enabled)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("ESTATELY_DB.NAME", "estately")
	t.Setenv("ESTATELY_DB.USER", "estately")
	t.Setenv("ESTATELY_DB.MAX_CONNS", "3")
	t.Setenv("ESTATELY_DB.QUEUE_LIMIT", "7")
	t.Setenv("ESTATELY_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3, cfg.DB.MaxConns)
	assert.Equal(t, 7, cfg.DB.QueueLimit)
}

func TestLoadRejectsMissingDatabaseName(t *testing.T) {
	t.Setenv("ESTATELY_DB.USER", "estately")

	_, err := Load()
	assert.Error(t, err)
}
