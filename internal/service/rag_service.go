package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/dto"
	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/logger"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/metrics"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
	"github.com/YasasBanuka/document-insight-backend/pkg/llm"
	"github.com/YasasBanuka/document-insight-backend/pkg/rag/prompt"
)

type IRAGService interface {
	// Ask answers a question grounded on the user's documents and
	// threads the exchange into a conversation (a new one, or the one
	// named in the request).
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
	// AskDocumentStream answers a question scoped to one document,
	// returning fragments as the model produces them. The channel is
	// closed when the model finishes or the context is cancelled.
	AskDocumentStream(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, req *dto.AskDocumentRequest) (<-chan string, error)
}

type ragService struct {
	uowFactory          unitofwork.RepositoryFactory
	retriever           IRetrieverService
	conversationService IConversationService
	llmProvider         llm.Provider
	defaultTopK         int
	logger              logger.ILogger
}

func NewRAGService(
	uowFactory unitofwork.RepositoryFactory,
	retriever IRetrieverService,
	conversationService IConversationService,
	llmProvider llm.Provider,
	defaultTopK int,
	log logger.ILogger,
) IRAGService {
	return &ragService{
		uowFactory:          uowFactory,
		retriever:           retriever,
		conversationService: conversationService,
		llmProvider:         llmProvider,
		defaultTopK:         defaultTopK,
		logger:              log,
	}
}

func (s *ragService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	scored, err := s.retriever.RetrieveForUser(ctx, userId, req.Question, topK)
	if err != nil {
		return nil, err
	}
	metrics.RecordRAGQuery(len(scored))

	// Zero retrieved chunks still reaches the model; it owns the
	// "I don't have enough information" style of degradation.
	answer, err := s.llmProvider.Generate(ctx, buildGroundedPrompt(scored, req.Question))
	if err != nil {
		return nil, err
	}

	sources := toAttributions(scored)

	conversationId, err := s.thread(ctx, userId, req, answer, sources)
	if err != nil {
		return nil, err
	}

	return &dto.AskResponse{
		Answer:         answer,
		Sources:        toSourceDTOs(sources),
		ConversationId: conversationId,
	}, nil
}

// thread persists the question/answer pair, creating a conversation
// when the request names none.
func (s *ragService) thread(ctx context.Context, userId uuid.UUID, req *dto.AskRequest, answer string, sources []entity.SourceAttribution) (uuid.UUID, error) {
	if req.ConversationId != nil {
		if err := s.conversationService.Append(ctx, *req.ConversationId, userId, req.Question, answer, sources); err != nil {
			return uuid.Nil, err
		}
		return *req.ConversationId, nil
	}

	conv, err := s.conversationService.Create(ctx, userId, req.Question, answer, sources)
	if err != nil {
		return uuid.Nil, err
	}
	return conv.Id, nil
}

func (s *ragService) AskDocumentStream(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, req *dto.AskDocumentRequest) (<-chan string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	scored, err := s.retriever.RetrieveInDocument(ctx, documentId, req.Question, topK)
	if err != nil {
		return nil, err
	}
	// Counted once at stream construction, not per fragment.
	metrics.RecordRAGQuery(len(scored))

	return s.llmProvider.GenerateStream(ctx, buildGroundedPrompt(scored, req.Question))
}

func buildGroundedPrompt(scored []*contract.ScoredChunk, question string) string {
	chunks := make([]prompt.ContextChunk, len(scored))
	for i, sc := range scored {
		chunks[i] = prompt.ContextChunk{
			Filename: sc.Filename,
			Content:  sc.Chunk.Content,
		}
	}
	return prompt.NewGroundedBuilder(chunks, question).Build()
}

func toAttributions(scored []*contract.ScoredChunk) []entity.SourceAttribution {
	sources := make([]entity.SourceAttribution, len(scored))
	for i, sc := range scored {
		sources[i] = entity.SourceAttribution{
			DocumentId: sc.Chunk.DocumentId,
			Filename:   sc.Filename,
			Similarity: sc.Similarity,
		}
	}
	return sources
}
