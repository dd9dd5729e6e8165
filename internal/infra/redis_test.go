package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_RejectsBadURL(t *testing.T) {
	rdb, err := NewRedis(context.Background(), "memcached://localhost:11211")
	require.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "redis url")
}

func TestNewRedis_ReportsUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rdb, err := NewRedis(ctx, "redis://127.0.0.1:1/2")
	require.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "redis ping 127.0.0.1:1")
}
