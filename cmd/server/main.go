package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rscoates/magic-library/internal/auth"
	"github.com/rscoates/magic-library/internal/config"
	"github.com/rscoates/magic-library/internal/handler"
	"github.com/rscoates/magic-library/internal/middleware"
	"github.com/rscoates/magic-library/internal/repository/postgres"
	"github.com/rscoates/magic-library/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"auth_enabled", cfg.AuthEnabled,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	containerRepo := postgres.NewContainerRepository(repoConfig)
	typeRepo := postgres.NewContainerTypeRepository(repoConfig)
	entryRepo := postgres.NewEntryRepository(repoConfig)
	cardCatalog := postgres.NewCardCatalog(repoConfig)
	metadataRepo := postgres.NewMetadataRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	containerService := service.NewContainerService(containerRepo, typeRepo, txManager, logger)
	inventoryService := service.NewInventoryService(entryRepo, containerRepo, cardCatalog, metadataRepo, txManager, logger)
	binderService := service.NewBinderService(entryRepo, containerRepo, typeRepo, cardCatalog, metadataRepo, txManager, logger)
	decklistService := service.NewDecklistService(entryRepo, containerRepo, cardCatalog, metadataRepo, logger)
	catalogService := service.NewCatalogService(cardCatalog, metadataRepo, logger)

	// Create handlers
	containerHandler := handler.NewContainerHandler(containerService, logger)
	collectionHandler := handler.NewCollectionHandler(inventoryService, logger)
	binderHandler := handler.NewBinderHandler(binderService, logger)
	decklistHandler := handler.NewDecklistHandler(decklistService, logger)
	cardHandler := handler.NewCardHandler(catalogService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", cardHandler.HealthCheck)

	// Container routes
	mux.HandleFunc("GET /api/containers", containerHandler.ListContainers)
	mux.HandleFunc("POST /api/containers", containerHandler.CreateContainer)
	mux.HandleFunc("GET /api/containers/tree", containerHandler.GetTree) // Must come before {id} route
	mux.HandleFunc("GET /api/containers/{id}", containerHandler.GetContainer)
	mux.HandleFunc("PATCH /api/containers/{id}", containerHandler.UpdateContainer)
	mux.HandleFunc("DELETE /api/containers/{id}", containerHandler.DeleteContainer)
	mux.HandleFunc("GET /api/containers/{id}/tree", containerHandler.GetTree)

	// Binder layout routes
	mux.HandleFunc("GET /api/containers/{id}/binder", binderHandler.GetPage)
	mux.HandleFunc("PUT /api/containers/{id}/binder/positions", binderHandler.UpdatePositions)
	mux.HandleFunc("GET /api/containers/{id}/binder/positions/{position}", binderHandler.GetPosition)

	// Container type routes
	mux.HandleFunc("GET /api/container-types", containerHandler.ListContainerTypes)
	mux.HandleFunc("POST /api/container-types", containerHandler.CreateContainerType)

	// Collection routes
	mux.HandleFunc("GET /api/collection", collectionHandler.ListEntries)
	mux.HandleFunc("POST /api/collection", collectionHandler.AddEntry)
	mux.HandleFunc("GET /api/collection/search", collectionHandler.SearchCollection) // Must come before {id} route
	mux.HandleFunc("POST /api/collection/move", collectionHandler.MoveEntry)
	mux.HandleFunc("PATCH /api/collection/{id}", collectionHandler.UpdateEntry)
	mux.HandleFunc("DELETE /api/collection/{id}", collectionHandler.DeleteEntry)

	// Decklist routes
	mux.HandleFunc("POST /api/decklist/check", decklistHandler.CheckDecklist)

	// Catalog routes
	mux.HandleFunc("GET /api/cards/search", cardHandler.SearchCards)
	mux.HandleFunc("GET /api/cards/{set}/{number}", cardHandler.GetCard)
	mux.HandleFunc("GET /api/sets", cardHandler.ListSets)
	mux.HandleFunc("GET /api/sets/{set}/numbers", cardHandler.ListSetNumbers)
	mux.HandleFunc("GET /api/languages", cardHandler.ListLanguages)
	mux.HandleFunc("GET /api/finishes", cardHandler.ListFinishes)

	// Create token verifier (used only when auth is enabled)
	verifier, err := auth.NewHS256Verifier(cfg.JWTSecret, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Routes
	h = middleware.Auth(verifier, cfg.AuthEnabled)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
