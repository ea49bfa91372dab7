package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConversationSummaryResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Id        uuid.UUID   `json:"id"`
	Type      string      `json:"type"` // "QUESTION" or "ANSWER"
	Content   string      `json:"content"`
	Sources   []SourceDTO `json:"sources,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type ConversationDetailResponse struct {
	Id        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at"`
}
