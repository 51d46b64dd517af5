// Package storage provides the key-value blob stores the ledger is saved to.
//
//go:generate mockgen -destination=mocks/blob_store.go -package=mocks . BlobStore
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orderledger/internal/app/config"
	"orderledger/internal/app/dsn"
	"orderledger/internal/app/redis"
	"orderledger/internal/app/repository"

	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore stores whole blobs under a key. Put replaces the blob.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Open creates the store selected by cfg.Driver. The returned func releases it.
func Open(ctx context.Context, cfg config.StorageConfig) (BlobStore, func() error, error) {
	driver := strings.ToLower(cfg.Driver)
	logrus.WithField("driver", driver).Info("opening blob store")

	switch driver {
	case "", "bolt":
		st, err := OpenBolt(cfg.Bolt.Path, cfg.Bolt.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil

	case "memory":
		return NewMemory(), func() error { return nil }, nil

	case "redis":
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client), client.Close, nil

	case "minio":
		client, err := NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil

	case "postgres":
		conn := cfg.Postgres.DSN
		if conn == "" {
			conn = dsn.FromEnv()
		}
		if conn == "" {
			return nil, nil, errors.New("postgres storage needs Storage.Postgres.DSN or DB_HOST")
		}
		repo, err := repository.New(conn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgresStore(repo), repo.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
