package embedding

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// Task types hint asymmetric embedding models at which side of the
// retrieval pair the text belongs to.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider defines the interface for generating text embeddings.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

// Encode converts a raw embedding into its storable pgvector form.
func Encode(values []float32) pgvector.Vector {
	return pgvector.NewVector(values)
}
