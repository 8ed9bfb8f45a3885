package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.NotEmpty(t, cfg.Server.Addr)
	require.Equal(t, 24, cfg.JWT.ExpiryHours)
	require.Contains(t, cfg.Database.DSN(), "dbname=")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("YATUBE_SERVER_ADDR", ":9999")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Server.Addr)
}
