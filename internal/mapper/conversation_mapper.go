package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ConversationMapper) ToEntities(convs []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, len(convs))
	for i, c := range convs {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ConversationMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}

	var sources []entity.SourceAttribution
	if len(msg.Sources) > 0 {
		// Corrupt attribution payloads degrade to an empty list.
		_ = json.Unmarshal(msg.Sources, &sources)
	}

	return &entity.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Type:           msg.Type,
		Content:        msg.Content,
		Sources:        sources,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConversationMapper) MessageToModel(msg *entity.ConversationMessage) (*model.ConversationMessage, error) {
	if msg == nil {
		return nil, nil
	}

	var sources datatypes.JSON
	if len(msg.Sources) > 0 {
		raw, err := json.Marshal(msg.Sources)
		if err != nil {
			return nil, err
		}
		sources = datatypes.JSON(raw)
	}

	return &model.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Type:           msg.Type,
		Content:        msg.Content,
		Sources:        sources,
		CreatedAt:      msg.CreatedAt,
	}, nil
}

func (m *ConversationMapper) MessagesToEntities(msgs []*model.ConversationMessage) []*entity.ConversationMessage {
	entities := make([]*entity.ConversationMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
