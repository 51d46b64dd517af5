package ds

import "time"

// Blob is a single key-value record of the postgres blob store.
type Blob struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
