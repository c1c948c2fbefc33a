package main

import (
	"fmt"
	"log"
	"os"

	"github.com/orderlens/backend/config"
	httpDelivery "github.com/orderlens/backend/internal/delivery/http"
	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/infrastructure/cache"
	"github.com/orderlens/backend/internal/infrastructure/store"
	"github.com/orderlens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting OrderLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store Type: %s", cfg.Store.Type)

	// Initialize infrastructure dependencies
	classificationCache := cache.NewMemoryCache()
	log.Printf("Classification cache TTL: %s", cfg.Cache.TTL)

	var recordStore domain.RecordStore
	if cfg.Store.Type == "redis" {
		redisStore, err := store.NewRedisStore(cfg.Store.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		recordStore = redisStore
	} else {
		recordStore = store.NewMemoryStore()
	}

	// Enable debug mode in development environment
	debug := cfg.Engine.EnableDebugLogging || cfg.Server.Environment == "development"
	if debug {
		log.Printf("Engine debug logging enabled")
	}

	// Initialize usecase layer
	classifier := usecase.NewClassifier(usecase.ClassifierConfig{
		PermissiveThreshold: cfg.Classifier.PermissiveThreshold,
		StrictThreshold:     cfg.Classifier.StrictThreshold,
		EnableDebugLogging:  debug,
	})

	extractionService := usecase.NewExtractionService(
		classificationCache,
		recordStore,
		classifier,
		usecase.ExtractionServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			StoreTTL:           cfg.Store.TTL,
			EnableDebugLogging: debug,
		},
	)

	mapper := usecase.NewMapperService(usecase.MapperConfig{EnableDebugLogging: debug})
	fillService := usecase.NewFillService(mapper, nil, usecase.FillServiceConfig{EnableDebugLogging: debug})

	log.Printf("Classifier: permissive=%.2f, strict=%.2f",
		cfg.Classifier.PermissiveThreshold, cfg.Classifier.StrictThreshold)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractionService, fillService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
