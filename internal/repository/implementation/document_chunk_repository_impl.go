package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/mapper"
	"github.com/YasasBanuka/document-insight-backend/internal/model"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentChunk{}).Error
}

func (r *DocumentChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	var models []*model.DocumentChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}

// scoredRow carries the chunk columns plus the computed similarity and
// the owning document's filename.
type scoredRow struct {
	model.DocumentChunk
	Filename   string
	Similarity float64
}

func (r *DocumentChunkRepositoryImpl) SearchSimilarByUser(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	queryVector := pgvector.NewVector(embedding)

	var results []scoredRow
	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, documents.filename, 1 - (embedding <=> ?) as similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("documents.user_id = ?", userId).
		Where("document_chunks.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Order("similarity DESC, chunk_index ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return r.toScoredChunks(results), nil
}

func (r *DocumentChunkRepositoryImpl) SearchSimilarByDocument(ctx context.Context, embedding []float32, limit int, documentId uuid.UUID) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	queryVector := pgvector.NewVector(embedding)

	var results []scoredRow
	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, documents.filename, 1 - (embedding <=> ?) as similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("document_chunks.document_id = ?", documentId).
		Where("document_chunks.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Order("similarity DESC, chunk_index ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return r.toScoredChunks(results), nil
}

func (r *DocumentChunkRepositoryImpl) toScoredChunks(results []scoredRow) []*contract.ScoredChunk {
	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.DocumentChunk),
			Filename:   res.Filename,
			Similarity: res.Similarity,
		}
	}
	return scored
}
