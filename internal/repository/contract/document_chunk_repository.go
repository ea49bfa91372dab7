package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
)

// ScoredChunk wraps a chunk with its cosine similarity to a query
// plus the filename of the owning document for attribution.
type ScoredChunk struct {
	Chunk      *entity.DocumentChunk
	Filename   string
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarByUser ranks a user's chunks against a query embedding,
	// most similar first, ties broken by chunk position.
	SearchSimilarByUser(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*ScoredChunk, error)
	// SearchSimilarByDocument restricts the ranking to a single document.
	SearchSimilarByDocument(ctx context.Context, embedding []float32, limit int, documentId uuid.UUID) ([]*ScoredChunk, error)
}
