package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pasar/internal/access"
	"pasar/internal/config"
	"pasar/internal/handlers"
	"pasar/internal/logging"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/pkg/blobstore"
	"pasar/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Environment)

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	store, err := openBlobStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open blob store")
	}

	// The event publisher is optional: without a broker URL the services
	// run with publishing disabled.
	var mqClient *rabbitmq.Client
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		events = mqClient
		log.Info().Msg("RabbitMQ client connected")
	} else {
		log.Warn().Msg("RABBITMQ_URL not set; event publishing disabled")
	}

	app := buildApp(cfg, db, store, events, log)

	// Consume our own event queue for audit logging, the same way the
	// broker would feed a downstream worker.
	if mqClient != nil {
		go func() {
			handler := func(msg amqp.Delivery) error {
				log.Info().Str("body", string(msg.Body)).Msg("domain event")
				return nil
			}
			if consumeErr := mqClient.ConsumeEvents(handler); consumeErr != nil {
				log.Error().Err(consumeErr).Msg("event consumer stopped")
			}
		}()
	}

	log.Info().Str("port", cfg.AppPort).Msg("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}
	log.Info().Msg("server gracefully stopped")
}

// buildApp assembles repositories, services, handlers and routes into a
// Fiber app.
func buildApp(cfg *config.Config, db *gorm.DB, store blobstore.Store, events services.EventPublisher, log zerolog.Logger) *fiber.App {
	// Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	vendorRepo := repositories.NewGORMVendorRepository(db)
	staffRepo := repositories.NewGORMStaffRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	imageRepo := repositories.NewGORMImageRepository(db)

	// The guard's self-override is an explicit configuration choice; see
	// DESIGN.md for why it defaults to the legacy behavior.
	guard := &access.Guard{SelfOverride: cfg.SelfAccessOverride}

	// Services
	authService := services.NewAuthService(userRepo, vendorRepo, staffRepo, events, cfg.JWTSecret, log)
	userService := services.NewUserService(userRepo, log)
	uploadService := services.NewUploadService(imageRepo, store, events, log)
	productService := services.NewProductService(productRepo, imageRepo, events, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, guard, log)
	userHandler := handlers.NewUserHandler(userService, authService, guard, log)
	productHandler := handlers.NewProductHandler(productService, uploadService, authService, guard, log)

	app := fiber.New(fiber.Config{
		// The upload ceiling is enforced in the service at 5 MiB; the body
		// limit only has to admit such requests with multipart overhead.
		BodyLimit: 8 * 1024 * 1024,
	})

	app.Use(fiberrecover.New())
	app.Use(fiberlogger.New())

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	// Serve accepted uploads when they live on the local filesystem.
	if fsStore, ok := store.(*blobstore.FSStore); ok {
		app.Static("/uploads", fsStore.Dir())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// openDatabase opens the configured database and migrates the schema. The
// handle is owned by main and passed down explicitly; TranslateError maps
// unique-index violations to gorm.ErrDuplicatedKey across drivers.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.StaffAssignment{},
		&models.Product{},
		&models.Image{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// openBlobStore builds the configured upload backend.
func openBlobStore(cfg *config.Config) (blobstore.Store, error) {
	switch cfg.StorageBackend {
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return blobstore.NewMinioStore(ctx, blobstore.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	case "fs":
		return blobstore.NewFSStore(cfg.UploadDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
