package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/memory"
)

func seedDocument(t *testing.T, store *memory.Store, userId uuid.UUID, filename string) uuid.UUID {
	t.Helper()

	doc := entity.Document{
		Id:          uuid.New(),
		Filename:    filename,
		ContentType: "text/plain",
		SizeBytes:   10,
		StoragePath: filename,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.NewUnitOfWork(context.Background()).DocumentRepository().Create(context.Background(), &doc))
	return doc.Id
}

func seedChunk(t *testing.T, store *memory.Store, documentId uuid.UUID, index int, content string, vector []float32) {
	t.Helper()

	chunk := entity.DocumentChunk{
		Id:         uuid.New(),
		DocumentId: documentId,
		ChunkIndex: index,
		Content:    content,
		Embedding:  pgvector.NewVector(vector),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.NewUnitOfWork(context.Background()).DocumentChunkRepository().Create(context.Background(), &chunk))
}

func TestRetrieverServiceOrdering(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	store := memory.NewStore()
	docId := seedDocument(t, store, userId, "guide.pdf")
	seedChunk(t, store, docId, 0, "orthogonal", []float32{0, 1, 0})
	seedChunk(t, store, docId, 1, "diagonal", []float32{1, 1, 0})
	seedChunk(t, store, docId, 2, "aligned", []float32{1, 0, 0})

	svc := NewRetrieverService(store, &fakeEmbedder{vector: []float32{1, 0, 0}})

	results, err := svc.RetrieveForUser(ctx, userId, "question", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "aligned", results[0].Chunk.Content)
	assert.Equal(t, "diagonal", results[1].Chunk.Content)
	assert.Equal(t, "orthogonal", results[2].Chunk.Content)
	assert.Equal(t, "guide.pdf", results[0].Filename)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestRetrieverServiceTieBreakByPosition(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	store := memory.NewStore()
	docId := seedDocument(t, store, userId, "notes.txt")
	// Insert out of position order with identical similarity.
	seedChunk(t, store, docId, 3, "later", []float32{1, 0, 0})
	seedChunk(t, store, docId, 0, "earlier", []float32{1, 0, 0})

	svc := NewRetrieverService(store, &fakeEmbedder{vector: []float32{1, 0, 0}})

	results, err := svc.RetrieveForUser(ctx, userId, "question", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "earlier", results[0].Chunk.Content)
	assert.Equal(t, "later", results[1].Chunk.Content)
}

func TestRetrieverServiceScopes(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	store := memory.NewStore()
	mine := seedDocument(t, store, userId, "mine.txt")
	other := seedDocument(t, store, uuid.New(), "other.txt")
	seedChunk(t, store, mine, 0, "visible", []float32{1, 0, 0})
	seedChunk(t, store, other, 0, "hidden", []float32{1, 0, 0})

	svc := NewRetrieverService(store, &fakeEmbedder{vector: []float32{1, 0, 0}})

	t.Run("user scope excludes other owners", func(t *testing.T) {
		results, err := svc.RetrieveForUser(ctx, userId, "question", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "visible", results[0].Chunk.Content)
	})

	t.Run("document scope excludes other documents", func(t *testing.T) {
		results, err := svc.RetrieveInDocument(ctx, other, "question", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "hidden", results[0].Chunk.Content)
	})

	t.Run("empty corpus returns no results", func(t *testing.T) {
		results, err := svc.RetrieveForUser(ctx, uuid.New(), "question", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestRetrieverServiceTopK(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	store := memory.NewStore()
	docId := seedDocument(t, store, userId, "many.txt")
	for i := 0; i < 8; i++ {
		seedChunk(t, store, docId, i, "chunk", []float32{1, 0, 0})
	}

	svc := NewRetrieverService(store, &fakeEmbedder{vector: []float32{1, 0, 0}})

	results, err := svc.RetrieveForUser(ctx, userId, "question", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	_, err = svc.RetrieveForUser(ctx, userId, "question", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.RetrieveInDocument(ctx, docId, "question", -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
