package main

import (
	"context"
	"log"

	"jsonl2csv/ai"
	"jsonl2csv/cache"
	"jsonl2csv/config"
	"jsonl2csv/db"
	_ "jsonl2csv/docs" // Swagger docs
	"jsonl2csv/handlers"
	"jsonl2csv/service"
	"jsonl2csv/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg := config.GetConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize cache
	appCache := cache.New()

	// Initialize AI client
	aiService, err := ai.New(cfg.AIAPIKey, cfg.ModelName, cfg.AIBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	defer aiService.Close()

	// Initialize the conversion loop
	executor := service.NewPythonExecutor(cfg.PythonBin, cfg.ExecTimeout)
	converter := service.NewConverter(aiService, executor, validation.ValidateCSV, cfg.MaxAttempts)

	// Initialize object storage (optional)
	var store service.ObjectStore
	if cfg.GCS.Bucket != "" {
		gcsStore, err := service.NewGCSStore(context.Background(), cfg.GCS.Bucket)
		if err != nil {
			log.Printf("Warning: Failed to initialize GCS store: %v", err)
			log.Println("Artifact upload will be unavailable")
		} else {
			defer gcsStore.Close()
			store = gcsStore
			log.Println("GCS store initialized successfully")
		}
	}

	// Initialize handlers
	h := handlers.New(database, appCache, converter, store, cfg)

	// Setup Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"}
	r.Use(cors.New(corsConfig))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)
	r.POST("/api/convert", h.ConvertHandler)
	r.GET("/api/conversions", h.ListRunsHandler)
	r.GET("/api/conversions/:run_id", h.GetRunHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
