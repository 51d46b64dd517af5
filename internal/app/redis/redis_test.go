package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"orderledger/internal/app/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobRoundTripUsesPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := New(context.Background(), config.RedisConfig{
		Host:        mr.Host(),
		Port:        port,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_, found, err := c.GetBlob(ctx, "@products")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.PutBlob(ctx, "@products", []byte("[]")))
	raw, err := mr.Get("ledger:@products")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	data, found, err := c.GetBlob(ctx, "@products")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, c.DeleteBlob(ctx, "@products"))
	assert.False(t, mr.Exists("ledger:@products"))
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	mr.Close()

	_, err := New(context.Background(), config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        port,
		DialTimeout: 200 * time.Millisecond,
		ReadTimeout: 200 * time.Millisecond,
	})
	assert.Error(t, err)
}
