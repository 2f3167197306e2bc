package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"eco-quest-system/handlers"
	"eco-quest-system/middleware"
	"eco-quest-system/models"
	"eco-quest-system/services"
	"eco-quest-system/utils"
	"eco-quest-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// r2ProofStore adapts the R2 helpers in utils to the proof pipeline.
type r2ProofStore struct{}

func (r2ProofStore) SignUpload(key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	signed, err := utils.GetSignedUploadURL(key, contentType, expiresIn)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed.UploadURL, signed.ExpiresAt, nil
}

func (r2ProofStore) Stat(key string) (services.ProofFileMetadata, bool, error) {
	meta, exists, err := utils.StatObject(key)
	if err != nil || !exists {
		return services.ProofFileMetadata{}, false, err
	}
	return services.ProofFileMetadata{
		Size:        meta.Size,
		ContentType: meta.ContentType,
		TimeCreated: meta.LastModified,
	}, true, nil
}

func (r2ProofStore) URL(key string) string {
	return utils.ObjectURL(key)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — proof media goes straight to R2, not through us
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Request-Nonce, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Optional: Redis-backed replay protection for state-changing requests
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL:", err)
		}
		rdb := redis.NewClient(opts)
		app.Use(middleware.ReplayProtectionMiddleware(rdb))
		log.Println("✅ Replay protection enabled (Redis)")
	} else {
		log.Println("⚠️  REDIS_URL not set — replay protection disabled")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitStorage(); err != nil {
		log.Fatal("failed to initialize storage client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Mission{},
		&models.MissionProgress{},
		&models.Reward{},
		&models.Badge{},
		&models.UserBadge{},
		&models.MapRegion{},
		&models.Proof{},
		&models.Lesson{},
		&models.QuizQuestion{},
		&models.LearningProgress{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	rewardService := services.NewRewardService(db)
	progressionService := services.NewProgressionService(db)
	badgeService := services.NewBadgeService(db, rewardService)
	mapService := services.NewMapService(db)
	missionService := services.NewMissionService(db, rewardService, progressionService, badgeService, mapService)
	proofService := services.NewProofService(db, r2ProofStore{})
	godService := services.NewGodService(db)
	userService := services.NewUserService(db)
	learningService := services.NewLearningService(db)

	if err := badgeService.SeedBadges(); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := workers.NewProofSweeper(proofService)
	sweeper.Start()
	defer sweeper.Stop()

	// ✅ Setup routes — now with enforced Gateway auth + consistent /s/ prefix
	handlers.SetupMissionRoutes(app, missionService)
	handlers.SetupProgressionRoutes(app, userService, progressionService, badgeService, rewardService)
	handlers.SetupMapRoutes(app, mapService, godService)
	handlers.SetupProofRoutes(app, proofService)
	handlers.SetupLearningRoutes(app, learningService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Proof sweeper running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
