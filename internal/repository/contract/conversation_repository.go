package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
}

type ConversationMessageRepository interface {
	Create(ctx context.Context, msg *entity.ConversationMessage) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
}
