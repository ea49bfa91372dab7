package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID
	Filename    string
	ContentType string
	SizeBytes   int64
	StoragePath string
	UserId      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
