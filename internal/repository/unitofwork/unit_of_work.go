package unitofwork

import (
	"context"

	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
}
