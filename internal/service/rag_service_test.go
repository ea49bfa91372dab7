package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasasBanuka/document-insight-backend/internal/dto"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/memory"
)

func newRAGServiceForTest(store *memory.Store, embedder *fakeEmbedder, model *fakeLLM) IRAGService {
	retriever := NewRetrieverService(store, embedder)
	conversations := NewConversationService(store, 24*time.Hour, nopLogger{})
	return NewRAGService(store, retriever, conversations, model, 5, nopLogger{})
}

func TestRAGServiceAsk(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("grounds the prompt and attributes sources in retrieval order", func(t *testing.T) {
		store := memory.NewStore()
		docId := seedDocument(t, store, userId, "handbook.pdf")
		seedChunk(t, store, docId, 0, "Employees get 25 vacation days.", []float32{1, 0, 0})
		seedChunk(t, store, docId, 1, "Remote work is allowed twice a week.", []float32{0, 1, 0})

		model := &fakeLLM{answer: "25 vacation days."}
		svc := newRAGServiceForTest(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, model)

		resp, err := svc.Ask(ctx, userId, &dto.AskRequest{Question: "How many vacation days?"})
		require.NoError(t, err)
		assert.Equal(t, "25 vacation days.", resp.Answer)
		require.Len(t, resp.Sources, 2)
		assert.Equal(t, "handbook.pdf", resp.Sources[0].Filename)
		assert.Equal(t, docId, resp.Sources[0].DocumentId)
		assert.Greater(t, resp.Sources[0].Similarity, resp.Sources[1].Similarity)

		assert.Contains(t, model.lastPrompt, "Employees get 25 vacation days.")
		assert.Contains(t, model.lastPrompt, "handbook.pdf")
		assert.Contains(t, model.lastPrompt, "How many vacation days?")
		assert.NotEqual(t, uuid.Nil, resp.ConversationId)
	})

	t.Run("starts a conversation holding the exchange", func(t *testing.T) {
		store := memory.NewStore()
		model := &fakeLLM{answer: "answer"}
		svc := newRAGServiceForTest(store, &fakeEmbedder{}, model)
		conversations := NewConversationService(store, 24*time.Hour, nopLogger{})

		resp, err := svc.Ask(ctx, userId, &dto.AskRequest{Question: "first question"})
		require.NoError(t, err)

		detail, err := conversations.Get(ctx, resp.ConversationId, userId)
		require.NoError(t, err)
		assert.Equal(t, "first question", detail.Title)
		require.Len(t, detail.Messages, 2)
	})

	t.Run("appends to an existing conversation", func(t *testing.T) {
		store := memory.NewStore()
		model := &fakeLLM{answer: "answer"}
		svc := newRAGServiceForTest(store, &fakeEmbedder{}, model)
		conversations := NewConversationService(store, 24*time.Hour, nopLogger{})

		first, err := svc.Ask(ctx, userId, &dto.AskRequest{Question: "first"})
		require.NoError(t, err)

		second, err := svc.Ask(ctx, userId, &dto.AskRequest{
			Question:       "second",
			ConversationId: &first.ConversationId,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ConversationId, second.ConversationId)

		detail, err := conversations.Get(ctx, first.ConversationId, userId)
		require.NoError(t, err)
		assert.Len(t, detail.Messages, 4)
	})

	t.Run("appending to a foreign conversation is not found", func(t *testing.T) {
		store := memory.NewStore()
		model := &fakeLLM{answer: "answer"}
		svc := newRAGServiceForTest(store, &fakeEmbedder{}, model)

		foreign, err := svc.Ask(ctx, uuid.New(), &dto.AskRequest{Question: "theirs"})
		require.NoError(t, err)

		_, err = svc.Ask(ctx, userId, &dto.AskRequest{
			Question:       "mine",
			ConversationId: &foreign.ConversationId,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zero retrieved chunks still reaches the model", func(t *testing.T) {
		store := memory.NewStore()
		model := &fakeLLM{answer: "I don't have enough information."}
		svc := newRAGServiceForTest(store, &fakeEmbedder{}, model)

		resp, err := svc.Ask(ctx, userId, &dto.AskRequest{Question: "anything at all?"})
		require.NoError(t, err)
		assert.Equal(t, "I don't have enough information.", resp.Answer)
		assert.Empty(t, resp.Sources)
		assert.NotContains(t, model.lastPrompt, "<reference_material>")
		assert.Contains(t, model.lastPrompt, "anything at all?")
	})
}

func TestRAGServiceAskDocumentStream(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("streams fragments grounded on the document", func(t *testing.T) {
		store := memory.NewStore()
		docId := seedDocument(t, store, userId, "spec.docx")
		seedChunk(t, store, docId, 0, "The deadline is March 3rd.", []float32{1, 0, 0})

		model := &fakeLLM{fragments: []string{"The deadline ", "is March 3rd."}}
		svc := newRAGServiceForTest(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, model)

		stream, err := svc.AskDocumentStream(ctx, userId, docId, &dto.AskDocumentRequest{Question: "When is the deadline?"})
		require.NoError(t, err)

		var sb strings.Builder
		for fragment := range stream {
			sb.WriteString(fragment)
		}
		assert.Equal(t, "The deadline is March 3rd.", sb.String())
		assert.Contains(t, model.lastPrompt, "The deadline is March 3rd.")
	})

	t.Run("foreign document is not found", func(t *testing.T) {
		store := memory.NewStore()
		docId := seedDocument(t, store, uuid.New(), "private.pdf")

		model := &fakeLLM{fragments: []string{"nope"}}
		svc := newRAGServiceForTest(store, &fakeEmbedder{}, model)

		_, err := svc.AskDocumentStream(ctx, userId, docId, &dto.AskDocumentRequest{Question: "q"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("early cancellation stops fragment delivery", func(t *testing.T) {
		store := memory.NewStore()
		docId := seedDocument(t, store, userId, "long.pdf")
		seedChunk(t, store, docId, 0, "chapter one", []float32{1, 0, 0})

		model := &fakeLLM{fragments: []string{"a", "b", "c", "d"}}
		svc := newRAGServiceForTest(store, &fakeEmbedder{vector: []float32{1, 0, 0}}, model)

		streamCtx, cancel := context.WithCancel(ctx)
		stream, err := svc.AskDocumentStream(streamCtx, userId, docId, &dto.AskDocumentRequest{Question: "q"})
		require.NoError(t, err)

		first, ok := <-stream
		require.True(t, ok)
		assert.Equal(t, "a", first)
		cancel()

		// The channel closes once the producer observes cancellation.
		for range stream {
		}
	})
}
