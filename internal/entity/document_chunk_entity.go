package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  pgvector.Vector
	CreatedAt  time.Time
}
