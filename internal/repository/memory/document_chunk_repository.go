package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
)

type chunkRepository struct {
	store *Store
}

func (r *chunkRepository) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	copied := *chunk
	r.store.chunks[chunk.Id] = &copied
	return nil
}

func (r *chunkRepository) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, c := range r.store.chunks {
		if c.DocumentId == documentId {
			delete(r.store.chunks, id)
		}
	}
	return nil
}

func (r *chunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var documentID *uuid.UUID
	for _, s := range specs {
		if sp, ok := s.(specification.ByDocumentID); ok {
			id := sp.DocumentID
			documentID = &id
		}
	}

	var chunks []*entity.DocumentChunk
	for _, c := range r.store.chunks {
		if documentID != nil && c.DocumentId != *documentID {
			continue
		}
		copied := *c
		chunks = append(chunks, &copied)
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

func (r *chunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	chunks, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(chunks)), nil
}

func (r *chunkRepository) SearchSimilarByUser(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*contract.ScoredChunk, error) {
	return r.searchSimilar(embedding, limit, func(c *entity.DocumentChunk, doc *entity.Document) bool {
		return doc != nil && doc.UserId == userId
	})
}

func (r *chunkRepository) SearchSimilarByDocument(ctx context.Context, embedding []float32, limit int, documentId uuid.UUID) ([]*contract.ScoredChunk, error) {
	return r.searchSimilar(embedding, limit, func(c *entity.DocumentChunk, doc *entity.Document) bool {
		return c.DocumentId == documentId
	})
}

func (r *chunkRepository) searchSimilar(embedding []float32, limit int, include func(*entity.DocumentChunk, *entity.Document) bool) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var scored []*contract.ScoredChunk
	for _, c := range r.store.chunks {
		doc := r.store.documents[c.DocumentId]
		if !include(c, doc) {
			continue
		}
		copied := *c
		filename := ""
		if doc != nil {
			filename = doc.Filename
		}
		scored = append(scored, &contract.ScoredChunk{
			Chunk:      &copied,
			Filename:   filename,
			Similarity: cosineSimilarity(embedding, c.Embedding.Slice()),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Chunk.ChunkIndex < scored[j].Chunk.ChunkIndex
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
