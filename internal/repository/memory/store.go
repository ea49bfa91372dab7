package memory

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/contract"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
)

// Store is an in-memory implementation of the repository layer. It
// backs the service tests and local experiments where postgres and
// pgvector are unavailable. Transactions are no-ops.
type Store struct {
	mu            sync.RWMutex
	documents     map[uuid.UUID]*entity.Document
	chunks        map[uuid.UUID]*entity.DocumentChunk
	conversations map[uuid.UUID]*entity.Conversation
	messages      map[uuid.UUID]*entity.ConversationMessage
}

func NewStore() *Store {
	return &Store{
		documents:     make(map[uuid.UUID]*entity.Document),
		chunks:        make(map[uuid.UUID]*entity.DocumentChunk),
		conversations: make(map[uuid.UUID]*entity.Conversation),
		messages:      make(map[uuid.UUID]*entity.ConversationMessage),
	}
}

func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unit{store: s}
}

type unit struct {
	store *Store
}

func (u *unit) Begin(ctx context.Context) error { return nil }
func (u *unit) Commit() error                   { return nil }
func (u *unit) Rollback() error                 { return nil }

func (u *unit) DocumentRepository() contract.DocumentRepository {
	return &documentRepository{store: u.store}
}

func (u *unit) DocumentChunkRepository() contract.DocumentChunkRepository {
	return &chunkRepository{store: u.store}
}

func (u *unit) ConversationRepository() contract.ConversationRepository {
	return &conversationRepository{store: u.store}
}

func (u *unit) ConversationMessageRepository() contract.ConversationMessageRepository {
	return &messageRepository{store: u.store}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
