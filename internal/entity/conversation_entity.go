package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Messages  []ConversationMessage
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type ConversationMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Type           string // constant.MessageTypeQuestion or constant.MessageTypeAnswer
	Content        string
	Sources        []SourceAttribution
	CreatedAt      time.Time
}

// SourceAttribution ties an answer back to the chunk it was grounded on.
type SourceAttribution struct {
	DocumentId uuid.UUID `json:"documentId"`
	Filename   string    `json:"filename"`
	Similarity float64   `json:"similarity"`
}
