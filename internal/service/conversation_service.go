package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/constant"
	"github.com/YasasBanuka/document-insight-backend/internal/dto"
	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/logger"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
)

const (
	titleMaxLen  = 50
	titleCutLen  = 47
	titleEllipse = "..."
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, question, answer string, sources []entity.SourceAttribution) (*entity.Conversation, error)
	Append(ctx context.Context, conversationId uuid.UUID, userId uuid.UUID, question, answer string, sources []entity.SourceAttribution) error
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationSummaryResponse, error)
	Get(ctx context.Context, conversationId uuid.UUID, userId uuid.UUID) (*dto.ConversationDetailResponse, error)
	Delete(ctx context.Context, conversationId uuid.UUID, userId uuid.UUID) error
	// CleanupExpired removes every conversation whose last update is
	// strictly older than the retention window, cascading to messages.
	CleanupExpired(ctx context.Context) (int, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	maxAge     time.Duration
	logger     logger.ILogger
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, maxAge time.Duration, log logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		maxAge:     maxAge,
		logger:     log,
	}
}

// generateTitle derives the conversation title from its first question.
func generateTitle(question string) string {
	runes := []rune(question)
	if len(runes) > titleMaxLen {
		return string(runes[:titleCutLen]) + titleEllipse
	}
	return question
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, question, answer string, sources []entity.SourceAttribution) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	conv := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     generateTitle(question),
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, &conv); err != nil {
		return nil, err
	}

	questionMsg, answerMsg, err := s.appendPair(ctx, uow, conv.Id, question, answer, sources)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	conv.Messages = []entity.ConversationMessage{*questionMsg, *answerMsg}
	s.logger.Info("CONVERSATION", "Created conversation", map[string]interface{}{
		"conversation_id": conv.Id,
		"user_id":         userId,
	})
	return &conv, nil
}

func (s *conversationService) Append(ctx context.Context, conversationId uuid.UUID, userId uuid.UUID, question, answer string, sources []entity.SourceAttribution) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := s.findOwned(ctx, uow, conversationId, userId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, _, err := s.appendPair(ctx, uow, conv.Id, question, answer, sources); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Touch(ctx, conv.Id); err != nil {
		return err
	}

	return uow.Commit()
}

// appendPair stores a QUESTION message followed by its ANSWER with
// source attributions.
func (s *conversationService) appendPair(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, question, answer string, sources []entity.SourceAttribution) (*entity.ConversationMessage, *entity.ConversationMessage, error) {
	msgRepo := uow.ConversationMessageRepository()

	questionMsg := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Type:           constant.MessageTypeQuestion,
		Content:        question,
		CreatedAt:      time.Now(),
	}
	if err := msgRepo.Create(ctx, &questionMsg); err != nil {
		return nil, nil, err
	}

	answerMsg := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Type:           constant.MessageTypeAnswer,
		Content:        answer,
		Sources:        sources,
		CreatedAt:      time.Now(),
	}
	if err := msgRepo.Create(ctx, &answerMsg); err != nil {
		return nil, nil, err
	}

	return &questionMsg, &answerMsg, nil
}

func (s *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, userId uuid.UUID) (*entity.Conversation, error) {
	conv, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrNotFound
	}
	return conv, nil
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	convs, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ConversationSummaryResponse, len(convs))
	for i, conv := range convs {
		responses[i] = &dto.ConversationSummaryResponse{
			Id:        conv.Id,
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}
	}
	return responses, nil
}

func (s *conversationService) Get(ctx context.Context, conversationId uuid.UUID, userId uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := s.findOwned(ctx, uow, conversationId, userId)
	if err != nil {
		return nil, err
	}

	msgs, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.MessageResponse, len(msgs))
	for i, msg := range msgs {
		messages[i] = dto.MessageResponse{
			Id:        msg.Id,
			Type:      msg.Type,
			Content:   msg.Content,
			Sources:   toSourceDTOs(msg.Sources),
			CreatedAt: msg.CreatedAt,
		}
	}

	return &dto.ConversationDetailResponse{
		Id:        conv.Id,
		Title:     conv.Title,
		Messages:  messages,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}, nil
}

func (s *conversationService) Delete(ctx context.Context, conversationId uuid.UUID, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := s.findOwned(ctx, uow, conversationId, userId)
	if err != nil {
		return err
	}

	if err := uow.ConversationMessageRepository().DeleteByConversationId(ctx, conv.Id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conv.Id); err != nil {
		return err
	}

	s.logger.Info("CONVERSATION", "Deleted conversation", map[string]interface{}{
		"conversation_id": conv.Id,
		"user_id":         userId,
	})
	return nil
}

func (s *conversationService) CleanupExpired(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := time.Now().Add(-s.maxAge)

	expired, err := uow.ConversationRepository().FindAll(ctx,
		specification.UpdatedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}

	for _, conv := range expired {
		if err := uow.ConversationMessageRepository().DeleteByConversationId(ctx, conv.Id); err != nil {
			return 0, err
		}
		if err := uow.ConversationRepository().Delete(ctx, conv.Id); err != nil {
			return 0, err
		}
	}

	if len(expired) > 0 {
		s.logger.Info("CONVERSATION", "Expired conversations removed", map[string]interface{}{
			"count":  len(expired),
			"cutoff": cutoff,
		})
	}
	return len(expired), nil
}

func toSourceDTOs(sources []entity.SourceAttribution) []dto.SourceDTO {
	if len(sources) == 0 {
		return nil
	}
	out := make([]dto.SourceDTO, len(sources))
	for i, src := range sources {
		out[i] = dto.SourceDTO{
			DocumentId: src.DocumentId,
			Filename:   src.Filename,
			Similarity: src.Similarity,
		}
	}
	return out
}
