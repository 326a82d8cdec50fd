package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"app/ai"
	"app/analytics"
	"app/config"
	"app/database"
	"app/handlers"
	"app/reports"
	"app/routes"
	"app/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.AppConfig.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	if config.AppConfig.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, reports will use the synthetic forecast path")
	}

	database.InitDB(config.AppConfig.DatabaseURL)
	defer database.CloseDB()

	aggregator := analytics.NewAggregator(database.GetDB(), logger)
	reasoner := ai.NewClient(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		time.Duration(config.AppConfig.AITimeoutSeconds)*time.Second,
		logger,
	)
	store := reports.NewPGStore(database.GetDB())
	handlers.InitReportHandlers(reports.NewService(aggregator, reasoner, store, logger))

	app := fiber.New()
	app.Use(cors.New())
	routes.SetupRoutes(app)

	addr := ":" + config.AppConfig.AppPort
	logger.Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
