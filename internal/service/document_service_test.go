package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasasBanuka/document-insight-backend/internal/repository/memory"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
	"github.com/YasasBanuka/document-insight-backend/pkg/storage"
)

func newDocumentServiceForTest(t *testing.T, store *memory.Store, embedder *fakeEmbedder, extract *fakeExtractor) (IDocumentService, *storage.LocalStore, string) {
	t.Helper()

	dir := t.TempDir()
	fileStore, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	svc := NewDocumentService(store, fileStore, extract, embedder, nopLogger{})
	return svc, fileStore, dir
}

func TestDocumentServiceIngest(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("stores document and contiguous chunks", func(t *testing.T) {
		store := memory.NewStore()
		svc, _, dir := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: strings.Repeat("a", 2500)})

		resp, err := svc.Ingest(ctx, userId, []byte("raw pdf bytes"), "report.pdf", "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", resp.Filename)
		assert.Equal(t, 2, resp.ChunkCount)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		chunks, err := store.NewUnitOfWork(ctx).DocumentChunkRepository().FindAll(ctx,
			specification.ByDocumentID{DocumentID: resp.Id},
		)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.ChunkIndex)
			assert.NotEmpty(t, chunk.Content)
		}
	})

	t.Run("rejects empty file before any write", func(t *testing.T) {
		store := memory.NewStore()
		svc, _, dir := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: "hello"})

		_, err := svc.Ingest(ctx, userId, nil, "empty.txt", "text/plain")
		assert.ErrorIs(t, err, ErrInvalidArgument)

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("rejects unsupported content type before any write", func(t *testing.T) {
		store := memory.NewStore()
		svc, _, dir := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: "hello"})

		_, err := svc.Ingest(ctx, userId, []byte("GIF89a"), "pic.gif", "image/gif")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("record creation failure deletes the stored file", func(t *testing.T) {
		store := memory.NewStore()
		dir := t.TempDir()
		fileStore, err := storage.NewLocalStore(dir)
		require.NoError(t, err)

		svc := NewDocumentService(&failingDocFactory{inner: store}, fileStore, &fakeExtractor{text: "hello"}, &fakeEmbedder{}, nopLogger{})

		_, err = svc.Ingest(ctx, userId, []byte("hello"), "note.txt", "text/plain")
		assert.ErrorIs(t, err, ErrStorageFailure)

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("extraction failure leaves document and file in place", func(t *testing.T) {
		store := memory.NewStore()
		svc, _, dir := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{err: errors.New("corrupt file")})

		_, err := svc.Ingest(ctx, userId, []byte("%PDF-1.4"), "broken.pdf", "application/pdf")
		assert.ErrorIs(t, err, ErrIngestionFailure)

		docs, err := svc.List(ctx, userId)
		require.NoError(t, err)
		require.Len(t, docs, 1)

		entries, _ := os.ReadDir(dir)
		assert.Len(t, entries, 1)
	})

	t.Run("embedding failure on third chunk leaves exactly two persisted", func(t *testing.T) {
		store := memory.NewStore()
		// 9200 chars with no sentence boundaries chunk into exactly five windows.
		svc, _, _ := newDocumentServiceForTest(t, store, &fakeEmbedder{failAt: 3}, &fakeExtractor{text: strings.Repeat("a", 9200)})

		_, err := svc.Ingest(ctx, userId, []byte("payload"), "big.txt", "text/plain")
		assert.ErrorIs(t, err, ErrIngestionFailure)

		docs, err := store.NewUnitOfWork(ctx).DocumentRepository().FindAll(ctx,
			specification.OwnedByUser{UserID: userId},
		)
		require.NoError(t, err)
		require.Len(t, docs, 1)

		chunks, err := store.NewUnitOfWork(ctx).DocumentChunkRepository().FindAll(ctx,
			specification.ByDocumentID{DocumentID: docs[0].Id},
		)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
		assert.Equal(t, 1, chunks[1].ChunkIndex)
	})
}

func TestDocumentServiceRemove(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("removes chunks, file and record", func(t *testing.T) {
		store := memory.NewStore()
		svc, _, dir := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: strings.Repeat("b", 2500)})

		resp, err := svc.Ingest(ctx, userId, []byte("data"), "doc.txt", "text/plain")
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, userId, resp.Id))

		_, err = svc.Get(ctx, userId, resp.Id)
		assert.ErrorIs(t, err, ErrNotFound)

		count, err := store.NewUnitOfWork(ctx).DocumentChunkRepository().Count(ctx,
			specification.ByDocumentID{DocumentID: resp.Id},
		)
		require.NoError(t, err)
		assert.Zero(t, count)

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("missing file does not block record removal", func(t *testing.T) {
		store := memory.NewStore()
		svc, fileStore, _ := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: "short note"})

		resp, err := svc.Ingest(ctx, userId, []byte("data"), "doc.txt", "text/plain")
		require.NoError(t, err)

		docs, err := store.NewUnitOfWork(ctx).DocumentRepository().FindAll(ctx,
			specification.OwnedByUser{UserID: userId},
		)
		require.NoError(t, err)
		require.NoError(t, os.Remove(fileStore.Path(docs[0].StoragePath)))

		require.NoError(t, svc.Remove(ctx, userId, resp.Id))
		_, err = svc.Get(ctx, userId, resp.Id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("another user's document is not found", func(t *testing.T) {
		store := memory.NewStore()
		svc, _, _ := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: "short note"})

		resp, err := svc.Ingest(ctx, userId, []byte("data"), "doc.txt", "text/plain")
		require.NoError(t, err)

		err = svc.Remove(ctx, uuid.New(), resp.Id)
		assert.ErrorIs(t, err, ErrNotFound)

		// Still retrievable by its owner.
		_, err = svc.Get(ctx, userId, resp.Id)
		assert.NoError(t, err)
	})
}

func TestDocumentServiceStats(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	store := memory.NewStore()
	svc, _, _ := newDocumentServiceForTest(t, store, &fakeEmbedder{}, &fakeExtractor{text: strings.Repeat("c", 2500)})

	_, err := svc.Ingest(ctx, userId, []byte("one"), "a.txt", "text/plain")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, userId, []byte("two"), "b.txt", "text/plain")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.DocumentCount)
	assert.Equal(t, int64(4), stats.ChunkCount)

	other, err := svc.Stats(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, other.DocumentCount)
	assert.Zero(t, other.ChunkCount)
}
