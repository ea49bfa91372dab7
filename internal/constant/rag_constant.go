package constant

const (
	MessageTypeQuestion = "QUESTION"
	MessageTypeAnswer   = "ANSWER"

	// Ollama Configuration
	OllamaDefaultBaseURL        = "http://localhost:11434"
	OllamaDefaultChatModel      = "llama3.1:8b"
	OllamaDefaultEmbeddingModel = "nomic-embed-text"

	// Embedding dimensionality expected by the chunk store schema.
	EmbeddingDimension = 768
)
