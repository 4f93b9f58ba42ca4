// server/cmd/api/main.go
package main

import (
	"time"

	"gate-pass-api-server/config"
	"gate-pass-api-server/internal/api/routes"
	"gate-pass-api-server/internal/database"
	"gate-pass-api-server/internal/directory"
	"gate-pass-api-server/internal/logger"
	"gate-pass-api-server/internal/notify"
	"gate-pass-api-server/internal/s3"
	"gate-pass-api-server/internal/socket"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatal("Could not load config", zap.Error(err))
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured")
	}

	// 2. Connect MongoDB and seed bootstrap data
	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := database.SeedSuperAdmin(db); err != nil {
		log.Fatal("Failed to seed super admin", zap.Error(err))
	}
	if err := database.SeedCategories(db); err != nil {
		log.Fatal("Failed to seed categories", zap.Error(err))
	}

	// 3. External collaborators
	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
	}
	notifier := notify.NewMail(cfg.Mail)
	dir := directory.NewCache(directory.NewERPClient(cfg.ERP), 1024, 15*time.Minute)

	// 4. Realtime hub
	wsHub := socket.NewHub()

	// 5. Router
	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub, notifier, dir)

	// 6. Start server
	log.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to run server", zap.Error(err))
	}
}
