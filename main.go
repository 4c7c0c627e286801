package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"prediction-pool-system/handlers"
	"prediction-pool-system/middleware"
	"prediction-pool-system/models"
	"prediction-pool-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐 GLOBAL: only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	origins := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Pool{},
		&models.PoolParticipant{},
		&models.Category{},
		&models.Nominee{},
		&models.Pick{},
		&models.RankingEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	rankingService := services.NewRankingService(db)
	orchestrator := services.NewRankingOrchestrator(db, rankingService)
	pickService := services.NewPickService(db)
	poolService := services.NewPoolService(db, pickService, orchestrator)
	resultsService := services.NewResultsService(db, orchestrator)
	userService := services.NewUserService(db)

	refreshInterval := 5 * time.Minute
	if v := os.Getenv("RANKING_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			refreshInterval = d
		} else {
			log.Printf("⚠️  Invalid RANKING_REFRESH_INTERVAL %q, using default %s", v, refreshInterval)
		}
	}
	orchestrator.StartRefreshScheduler(refreshInterval)

	handlers.SetupUserRoutes(app, userService)
	handlers.SetupPoolRoutes(app, poolService, orchestrator)
	handlers.SetupPickRoutes(app, pickService, poolService, orchestrator)
	handlers.SetupRankingRoutes(app, rankingService, poolService, orchestrator)
	handlers.SetupResultsRoutes(app, resultsService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Ranking refresh running (every %s)", refreshInterval)
	log.Println("✅ GatewayAuthMiddleware enforced globally, all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
