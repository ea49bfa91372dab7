package dto

import "github.com/google/uuid"

type AskRequest struct {
	Question       string     `json:"question" validate:"required"`
	TopK           int        `json:"top_k" validate:"omitempty,min=1,max=20"`
	ConversationId *uuid.UUID `json:"conversation_id,omitempty"`
}

type AskDocumentRequest struct {
	Question string `json:"question" validate:"required"`
	TopK     int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

type SourceDTO struct {
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Similarity float64   `json:"similarity"`
}

type AskResponse struct {
	Answer         string      `json:"answer"`
	Sources        []SourceDTO `json:"sources"`
	ConversationId uuid.UUID   `json:"conversation_id"`
}
