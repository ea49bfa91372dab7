package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
)

type conversationRepository struct {
	store *Store
}

type conversationQuery struct {
	filters []func(*entity.Conversation) bool
	order   *specification.OrderBy
}

func parseConversationSpecs(specs []specification.Specification) conversationQuery {
	var q conversationQuery
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			id := sp.ID
			q.filters = append(q.filters, func(c *entity.Conversation) bool { return c.Id == id })
		case specification.OwnedByUser:
			userID := sp.UserID
			q.filters = append(q.filters, func(c *entity.Conversation) bool { return c.UserId == userID })
		case specification.UpdatedBefore:
			cutoff := sp.Cutoff
			q.filters = append(q.filters, func(c *entity.Conversation) bool {
				return lastTouched(c).Before(cutoff)
			})
		case specification.OrderBy:
			o := sp
			q.order = &o
		}
	}
	return q
}

func (q conversationQuery) matches(c *entity.Conversation) bool {
	for _, f := range q.filters {
		if !f(c) {
			return false
		}
	}
	return true
}

func lastTouched(c *entity.Conversation) time.Time {
	if c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

func (r *conversationRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if conv.Id == uuid.Nil {
		conv.Id = uuid.New()
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	copied := *conv
	copied.Messages = nil
	r.store.conversations[conv.Id] = &copied
	return nil
}

func (r *conversationRepository) Touch(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if c, ok := r.store.conversations[id]; ok {
		now := time.Now()
		c.UpdatedAt = &now
	}
	return nil
}

func (r *conversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.conversations, id)
	return nil
}

func (r *conversationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	convs, err := r.FindAll(ctx, specs...)
	if err != nil || len(convs) == 0 {
		return nil, err
	}
	return convs[0], nil
}

func (r *conversationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q := parseConversationSpecs(specs)

	var convs []*entity.Conversation
	for _, c := range r.store.conversations {
		if q.matches(c) {
			copied := *c
			convs = append(convs, &copied)
		}
	}

	desc := q.order != nil && q.order.Desc
	sort.Slice(convs, func(i, j int) bool {
		ti, tj := lastTouched(convs[i]), lastTouched(convs[j])
		if ti.Equal(tj) {
			return convs[i].Id.String() < convs[j].Id.String()
		}
		if desc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
	return convs, nil
}

type messageRepository struct {
	store *Store
}

func (r *messageRepository) Create(ctx context.Context, msg *entity.ConversationMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if msg.Id == uuid.Nil {
		msg.Id = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	copied := *msg
	r.store.messages[msg.Id] = &copied
	return nil
}

func (r *messageRepository) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, m := range r.store.messages {
		if m.ConversationId == conversationId {
			delete(r.store.messages, id)
		}
	}
	return nil
}

func (r *messageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var conversationID *uuid.UUID
	for _, s := range specs {
		if sp, ok := s.(specification.ByConversationID); ok {
			id := sp.ConversationID
			conversationID = &id
		}
	}

	var msgs []*entity.ConversationMessage
	for _, m := range r.store.messages {
		if conversationID != nil && m.ConversationId != *conversationID {
			continue
		}
		copied := *m
		msgs = append(msgs, &copied)
	}

	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].Id.String() < msgs[j].Id.String()
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}
