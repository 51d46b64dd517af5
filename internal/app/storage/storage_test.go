package storage

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"orderledger/internal/app/config"
	"orderledger/internal/app/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the BlobStore contract against st.
func exerciseStore(t *testing.T, st BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Get(ctx, "@products")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Put(ctx, "@products", []byte(`[{"id":"1"}]`)))
	got, err := st.Get(ctx, "@products")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, st.Put(ctx, "@products", []byte(`[]`)))
	got, err = st.Get(ctx, "@products")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, st.Delete(ctx, "@products"))
	_, err = st.Get(ctx, "@products")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is fine
	require.NoError(t, st.Delete(ctx, "@products"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	st := NewMemory()
	buf := []byte("abc")
	require.NoError(t, st.Put(context.Background(), "k", buf))
	buf[0] = 'x'

	got, err := st.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestBoltStore(t *testing.T) {
	st, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "ledger.db"), "")
	require.NoError(t, err)
	defer st.Close()

	exerciseStore(t, st)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	st, err := OpenBolt(path, "orders")
	require.NoError(t, err)
	require.NoError(t, st.Put(context.Background(), "@products", []byte(`[1]`)))
	require.NoError(t, st.Close())

	st, err = OpenBolt(path, "orders")
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Get(context.Background(), "@products")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func newMiniredisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{
		Host:        mr.Host(),
		Port:        port,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	}
}

func TestRedisStore(t *testing.T) {
	client, err := redis.New(context.Background(), newMiniredisConfig(t))
	require.NoError(t, err)
	defer client.Close()

	exerciseStore(t, NewRedisStore(client))
}

func TestOpenMemory(t *testing.T) {
	st, closeFn, err := Open(context.Background(), config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	defer closeFn()

	exerciseStore(t, st)
}

func TestOpenBolt(t *testing.T) {
	st, closeFn, err := Open(context.Background(), config.StorageConfig{
		Driver: "BOLT",
		Bolt:   config.BoltConfig{Path: filepath.Join(t.TempDir(), "ledger.db")},
	})
	require.NoError(t, err)
	defer closeFn()

	exerciseStore(t, st)
}

func TestOpenRedis(t *testing.T) {
	st, closeFn, err := Open(context.Background(), config.StorageConfig{
		Driver: "redis",
		Redis:  newMiniredisConfig(t),
	})
	require.NoError(t, err)
	defer closeFn()

	exerciseStore(t, st)
}

func TestOpenPostgresWithoutDSN(t *testing.T) {
	t.Setenv("DB_HOST", "")
	_, _, err := Open(context.Background(), config.StorageConfig{Driver: "postgres"})
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.StorageConfig{Driver: "floppy"})
	assert.ErrorContains(t, err, "floppy")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", contentTypeFor("order-summary.PDF"))
	assert.Equal(t, "application/json", contentTypeFor("ledger.json"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("@products"))
}
