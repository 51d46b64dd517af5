package storage

import (
	"context"
	"fmt"

	"orderledger/internal/app/repository"
)

// PostgresStore adapts the gorm repository to BlobStore.
type PostgresStore struct {
	repo *repository.Repository
}

func NewPostgresStore(repo *repository.Repository) *PostgresStore {
	return &PostgresStore{repo: repo}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := s.repo.GetBlob(ctx, key)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return []byte(blob.Value), nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.repo.PutBlob(ctx, key, data); err != nil {
		return fmt.Errorf("postgres put %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := s.repo.DeleteBlob(ctx, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}
