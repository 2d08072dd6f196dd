package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulseautomarket/desking-backend/pkg/config"
)

func TestNewSQLiteDriver(t *testing.T) {
	cfg := config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: config.DBDriverSQLite,
	}

	client, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()))
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite}, nil)
	require.Error(t, err)
}
