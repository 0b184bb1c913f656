package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"uprise/meritmatch/internal/config"
	"uprise/meritmatch/internal/handlers"
	"uprise/meritmatch/internal/repositories"
	"uprise/meritmatch/internal/services"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	submissionRepo := repositories.NewSubmissionRepository(db)
	skillRepo := repositories.NewSkillScoreRepository(db)
	attachmentRepo := repositories.NewAttachmentRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	attachmentService := services.NewAttachmentService(attachmentRepo, storageService, services.NewPDFParserService())

	providerConfig := services.NewProviderConfig(cfg.AI)
	adapter := services.NewProviderAdapter(providerConfig)
	log.Printf("✅ Provider adapter ready (default provider: %s)", providerConfig.DefaultProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	matchService := services.NewMatchService(adapter, cfg.AI.MatchingEnabled, cfg.Worker.BatchConcurrency)
	submissionService := services.NewSubmissionService(
		submissionRepo,
		attachmentService,
		services.NewGradingOrchestrator(adapter),
		services.NewSkillAggregator(skillRepo),
		initSimilarityIndex(ctx, cfg),
		providerConfig.DefaultProvider,
	)

	queue, err := initQueue(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize grading queue: %v", err)
	}

	worker := services.NewWorker(
		submissionRepo,
		submissionService,
		queue,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	submissionService.SetEnqueuer(worker)
	worker.Start(ctx)

	matchHandler := handlers.NewMatchHandler(matchService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	skillHandler := handlers.NewSkillHandler(skillRepo)

	app := fiber.New(fiber.Config{
		AppName:      "MeritMatch Scoring API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/match/batch", matchHandler.HandleBatchMatch)
	api.Post("/attachments", attachmentHandler.HandleUpload)
	api.Post("/submissions", submissionHandler.HandleSubmit)
	api.Get("/submissions/:id", submissionHandler.HandleGetSubmission)
	api.Get("/candidates/:id/skills", skillHandler.HandleGetSkills)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		worker.Stop()
		if err := queue.Close(); err != nil {
			log.Printf("⚠️  Failed to close grading queue: %v", err)
		}
		cancel()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initSimilarityIndex falls back to a no-op index when Qdrant or Gemini is
// not configured or not reachable.
func initSimilarityIndex(ctx context.Context, cfg *config.Config) services.SimilarityIndex {
	if !cfg.Qdrant.Enabled() || cfg.AI.GeminiAPIKey == "" {
		log.Println("ℹ️  Similarity index disabled")
		return services.NewNoopSimilarityIndex()
	}

	embedder, err := services.NewGeminiEmbedder(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiBaseURL)
	if err != nil {
		log.Printf("⚠️  Similarity index disabled: %v", err)
		return services.NewNoopSimilarityIndex()
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Printf("⚠️  Similarity index disabled: %v", err)
		return services.NewNoopSimilarityIndex()
	}

	if err := store.InitCollection(ctx); err != nil {
		log.Printf("⚠️  Similarity index disabled: %v", err)
		return services.NewNoopSimilarityIndex()
	}

	log.Println("✅ Similarity index initialized")
	return services.NewVectorSimilarityIndex(embedder, store, services.NewTextChunker(), cfg.Qdrant.SimilarityThreshold)
}

func initQueue(cfg *config.Config) (services.GradingQueue, error) {
	if cfg.Queue.RabbitMQURL == "" {
		return services.NewChannelQueue(100), nil
	}
	return services.NewRabbitQueue(cfg.Queue.RabbitMQURL, cfg.Queue.QueueName)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
