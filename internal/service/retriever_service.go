package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
	"github.com/YasasBanuka/document-insight-backend/pkg/embedding"
)

type IRetrieverService interface {
	// RetrieveForUser returns the topK chunks most similar to the
	// question across all of the user's documents, most similar first,
	// ties broken by ascending chunk position.
	RetrieveForUser(ctx context.Context, userId uuid.UUID, question string, topK int) ([]*contract.ScoredChunk, error)
	// RetrieveInDocument restricts the search to one document's chunks.
	RetrieveInDocument(ctx context.Context, documentId uuid.UUID, question string, topK int) ([]*contract.ScoredChunk, error)
}

type retrieverService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
}

func NewRetrieverService(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider) IRetrieverService {
	return &retrieverService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (s *retrieverService) RetrieveForUser(ctx context.Context, userId uuid.UUID, question string, topK int) ([]*contract.ScoredChunk, error) {
	queryVector, err := s.embedQuestion(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentChunkRepository().SearchSimilarByUser(ctx, queryVector, topK, userId)
}

func (s *retrieverService) RetrieveInDocument(ctx context.Context, documentId uuid.UUID, question string, topK int) ([]*contract.ScoredChunk, error) {
	queryVector, err := s.embedQuestion(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentChunkRepository().SearchSimilarByDocument(ctx, queryVector, topK, documentId)
}

func (s *retrieverService) embedQuestion(ctx context.Context, question string, topK int) ([]float32, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", ErrInvalidArgument)
	}
	return s.embeddingProvider.Embed(ctx, question, embedding.TaskRetrievalQuery)
}
