package bootstrap

import (
	"log"
	"time"

	"github.com/YasasBanuka/document-insight-backend/internal/config"
	"github.com/YasasBanuka/document-insight-backend/internal/controller"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/logger"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/unitofwork"
	"github.com/YasasBanuka/document-insight-backend/internal/service"
	"github.com/YasasBanuka/document-insight-backend/pkg/embedding"
	"github.com/YasasBanuka/document-insight-backend/pkg/extractor"
	llmOllama "github.com/YasasBanuka/document-insight-backend/pkg/llm/ollama"
	"github.com/YasasBanuka/document-insight-backend/pkg/ratelimit"
	"github.com/YasasBanuka/document-insight-backend/pkg/storage"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController     controller.IDocumentController
	RAGController          controller.IRAGController
	ConversationController controller.IConversationController

	// Shared middleware dependencies
	RateLimiter *ratelimit.Limiter

	// Background Services (Exposed for main.go to run)
	ConversationService service.IConversationService
	Logger              logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	fileStore, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize upload storage: %v", err)
	}
	textExtractor := extractor.New()

	// 2. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	}

	llmProvider := llmOllama.New(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.LLMModel)

	// 3. Rate Limiting
	limiter := ratelimit.New(ratelimit.Config{
		General: ratelimit.AuthLimits{
			Authenticated:   ratelimit.Limit{Capacity: cfg.RateLimit.GeneralAuthCapacity, RefillTokens: cfg.RateLimit.GeneralAuthCapacity, RefillInterval: time.Minute},
			Unauthenticated: ratelimit.Limit{Capacity: cfg.RateLimit.GeneralUnauthCapacity, RefillTokens: cfg.RateLimit.GeneralUnauthCapacity, RefillInterval: time.Minute},
		},
		RAG: ratelimit.AuthLimits{
			Authenticated:   ratelimit.Limit{Capacity: cfg.RateLimit.RAGAuthCapacity, RefillTokens: cfg.RateLimit.RAGAuthCapacity, RefillInterval: time.Minute},
			Unauthenticated: ratelimit.Limit{Capacity: cfg.RateLimit.RAGUnauthCapacity, RefillTokens: cfg.RateLimit.RAGUnauthCapacity, RefillInterval: time.Minute},
		},
	})

	// 4. Services
	documentService := service.NewDocumentService(
		uowFactory,
		fileStore,
		textExtractor,
		embeddingProvider,
		sysLogger,
	)
	retrieverService := service.NewRetrieverService(uowFactory, embeddingProvider)
	conversationService := service.NewConversationService(
		uowFactory,
		cfg.Retention.ConversationMaxAge,
		sysLogger,
	)
	ragService := service.NewRAGService(
		uowFactory,
		retrieverService,
		conversationService,
		llmProvider,
		cfg.Ai.RetrievalTopK,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		DocumentController:     controller.NewDocumentController(documentService),
		RAGController:          controller.NewRAGController(ragService),
		ConversationController: controller.NewConversationController(conversationService),

		RateLimiter: limiter,

		ConversationService: conversationService,
		Logger:              sysLogger,
	}
}
