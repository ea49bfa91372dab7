package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename    string         `gorm:"type:varchar(255);not null"`
	ContentType string         `gorm:"type:varchar(100);not null"`
	SizeBytes   int64          `gorm:"not null"`
	StoragePath string         `gorm:"type:text;not null"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
