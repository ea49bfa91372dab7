package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Upload    UploadConfig
	Ai        AIConfig
	Retention RetentionConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama" or "gemini"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	GeminiAPIKey         string
	LLMModel             string // e.g. "llama3.1:8b"
	RetrievalTopK        int
}

type RetentionConfig struct {
	ConversationMaxAge time.Duration
	CleanupInterval    time.Duration
}

type RateLimitConfig struct {
	GeneralAuthCapacity   int
	GeneralUnauthCapacity int
	RAGAuthCapacity       int
	RAGUnauthCapacity     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "uploads"),
			MaxSizeBytes: int64(getEnvAsInt("UPLOAD_MAX_SIZE_BYTES", 25*1024*1024)),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			LLMModel:             getEnv("LLM_MODEL", "llama3.1:8b"),
			RetrievalTopK:        getEnvAsInt("RETRIEVAL_TOP_K", 5),
		},
		Retention: RetentionConfig{
			ConversationMaxAge: getEnvAsDuration("CONVERSATION_MAX_AGE", 24*time.Hour),
			CleanupInterval:    getEnvAsDuration("CLEANUP_INTERVAL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			GeneralAuthCapacity:   getEnvAsInt("RATE_LIMIT_GENERAL_AUTH", 100),
			GeneralUnauthCapacity: getEnvAsInt("RATE_LIMIT_GENERAL_UNAUTH", 20),
			RAGAuthCapacity:       getEnvAsInt("RATE_LIMIT_RAG_AUTH", 20),
			RAGUnauthCapacity:     getEnvAsInt("RATE_LIMIT_RAG_UNAUTH", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
