package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/dto"
	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/logger"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/metrics"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
	"github.com/YasasBanuka/document-insight-backend/pkg/chunker"
	"github.com/YasasBanuka/document-insight-backend/pkg/embedding"
	"github.com/YasasBanuka/document-insight-backend/pkg/extractor"
)

// FileStore is the durable blob storage the ingestion pipeline writes
// uploads to. Satisfied by storage.LocalStore.
type FileStore interface {
	Store(data []byte, originalFilename string) (string, error)
	Path(stored string) string
	Delete(stored string) error
}

// TextExtractor derives plain text from a stored file. Satisfied by
// extractor.Extractor.
type TextExtractor interface {
	Extract(ctx context.Context, path string, contentType string) (string, error)
}

type IDocumentService interface {
	Ingest(ctx context.Context, userId uuid.UUID, fileBytes []byte, originalFilename string, contentType string) (*dto.UploadDocumentResponse, error)
	Remove(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	Stats(ctx context.Context, userId uuid.UUID) (*dto.DocumentStatsResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	fileStore         FileStore
	extractor         TextExtractor
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	fileStore FileStore,
	textExtractor TextExtractor,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		fileStore:         fileStore,
		extractor:         textExtractor,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

// Ingest drives the upload pipeline: store the raw file, create the
// document record, extract text, chunk it and embed each chunk in
// position order. A mid-pipeline failure never leaves an orphaned file,
// but an extraction or embedding failure leaves the document (and any
// chunks persisted so far) in place for a later re-run.
func (s *documentService) Ingest(ctx context.Context, userId uuid.UUID, fileBytes []byte, originalFilename string, contentType string) (*dto.UploadDocumentResponse, error) {
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidArgument)
	}
	if !extractor.Supported(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	stored, err := s.fileStore.Store(fileBytes, originalFilename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc := entity.Document{
		Id:          uuid.New(),
		Filename:    originalFilename,
		ContentType: contentType,
		SizeBytes:   int64(len(fileBytes)),
		StoragePath: stored,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		// Compensate: the record never existed, so the file must not either.
		if delErr := s.fileStore.Delete(stored); delErr != nil {
			s.logger.Warn("DOCUMENT", "Failed to delete stored file after record creation failure", map[string]interface{}{
				"stored_file": stored,
				"error":       delErr.Error(),
			})
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	chunkCount, err := s.process(ctx, uow, &doc)
	if err != nil {
		s.logger.Error("DOCUMENT", "Ingestion failed after document creation", map[string]interface{}{
			"document_id": doc.Id,
			"user_id":     userId,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrIngestionFailure, err)
	}

	metrics.RecordDocumentUpload(contentType, doc.SizeBytes)
	s.logger.Info("DOCUMENT", "Document ingested", map[string]interface{}{
		"document_id": doc.Id,
		"user_id":     userId,
		"chunks":      chunkCount,
	})

	return &dto.UploadDocumentResponse{
		Id:          doc.Id,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		ChunkCount:  chunkCount,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// process extracts, chunks and embeds a stored document. Chunks are
// persisted one by one in position order; the first failure stops the
// run and leaves earlier chunks in place.
func (s *documentService) process(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document) (int, error) {
	text, err := s.extractor.Extract(ctx, s.fileStore.Path(doc.StoragePath), doc.ContentType)
	if err != nil {
		return 0, err
	}

	chunks := chunker.Chunk(text)
	chunkRepo := uow.DocumentChunkRepository()

	for i, content := range chunks {
		vector, err := s.embeddingProvider.Embed(ctx, content, embedding.TaskRetrievalDocument)
		if err != nil {
			return i, fmt.Errorf("embedding chunk %d: %w", i, err)
		}

		chunk := entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkIndex: i,
			Content:    content,
			Embedding:  embedding.Encode(vector),
			CreatedAt:  time.Now(),
		}
		if err := chunkRepo.Create(ctx, &chunk); err != nil {
			return i, fmt.Errorf("persisting chunk %d: %w", i, err)
		}
	}

	return len(chunks), nil
}

// Remove deletes a document's chunks and stored file before its record,
// so a crash mid-deletion never leaves chunks referencing a vanished
// document. File deletion is best-effort.
func (s *documentService) Remove(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return err
	}

	if err := s.fileStore.Delete(doc.StoragePath); err != nil {
		s.logger.Warn("DOCUMENT", "Failed to delete stored file, continuing with record removal", map[string]interface{}{
			"document_id": doc.Id,
			"stored_file": doc.StoragePath,
			"error":       err.Error(),
		})
	}

	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}

	s.logger.Info("DOCUMENT", "Document removed", map[string]interface{}{
		"document_id": doc.Id,
		"user_id":     userId,
	})
	return nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = toDocumentResponse(doc)
	}
	return responses, nil
}

func (s *documentService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) Stats(ctx context.Context, userId uuid.UUID) (*dto.DocumentStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return nil, err
	}

	var chunkCount int64
	chunkRepo := uow.DocumentChunkRepository()
	for _, doc := range docs {
		n, err := chunkRepo.Count(ctx, specification.ByDocumentID{DocumentID: doc.Id})
		if err != nil {
			return nil, err
		}
		chunkCount += n
	}

	return &dto.DocumentStatsResponse{
		DocumentCount: int64(len(docs)),
		ChunkCount:    chunkCount,
	}, nil
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:          doc.Id,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
