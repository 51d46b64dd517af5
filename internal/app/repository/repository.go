package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderledger/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&ds.Blob{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened and migrated connection.
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetBlob returns gorm.ErrRecordNotFound when the key is absent.
func (r *Repository) GetBlob(ctx context.Context, key string) (*ds.Blob, error) {
	var blob ds.Blob
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&blob).Error
	if err != nil {
		return nil, err
	}
	return &blob, nil
}

// PutBlob inserts the blob or replaces the stored value.
func (r *Repository) PutBlob(ctx context.Context, key string, value []byte) error {
	blob := ds.Blob{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
}

func (r *Repository) DeleteBlob(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&ds.Blob{}).Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
