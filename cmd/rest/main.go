package main

import (
	"context"
	"log"
	"time"

	"github.com/YasasBanuka/document-insight-backend/internal/bootstrap"
	"github.com/YasasBanuka/document-insight-backend/internal/config"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/metrics"
	"github.com/YasasBanuka/document-insight-backend/internal/server"
	"github.com/YasasBanuka/document-insight-backend/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Register Prometheus Collectors
	metrics.Register()

	// 3. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	go runConversationCleanup(container, cfg.Retention.CleanupInterval)

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}

// runConversationCleanup purges stale conversations on a fixed interval
// for the lifetime of the process.
func runConversationCleanup(container *bootstrap.Container, interval time.Duration) {
	log.Printf("Background: conversation cleanup every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := container.ConversationService.CleanupExpired(context.Background())
		if err != nil {
			log.Printf("Background: conversation cleanup failed: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("Background: removed %d expired conversations", removed)
		}
	}
}
