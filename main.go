package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Ananth-NQI/loanverse-backend/database"
	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/config"
	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/handlers"
	"github.com/Ananth-NQI/loanverse-backend/internal/jobs"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/observability"
	"github.com/Ananth-NQI/loanverse-backend/internal/routes"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

// maxUploadBytes leaves headroom above the largest accepted salary slip.
const maxUploadBytes = 25 * 1024 * 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	defer func() { _ = log.Sync() }()

	shutdownTracer := observability.InitTracer(cfg.Tracing)

	ctx := context.Background()

	// Initialize storage
	store, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize storage", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	sessionStore, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize session store", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	sessionManager := services.NewSessionManager(sessionStore, cfg.Session.TTL, log)

	// Twilio is optional; without it replies are only returned over HTTP
	var sender services.MessageSender
	if cfg.Twilio.Configured() {
		twilioService, err := services.NewTwilioService(cfg.Twilio, log)
		if err != nil {
			log.Warn("Twilio service not initialized", map[string]interface{}{"error": err.Error()})
		} else {
			sender = twilioService
			log.Info("Twilio service initialized", map[string]interface{}{"from": cfg.Twilio.WhatsAppFrom})
		}
	} else {
		log.Warn("Twilio credentials not found - WhatsApp replies will not be sent", nil)
	}

	orchestrator, err := conversation.NewOrchestrator(conversation.Deps{
		Profiles:  store,
		Extractor: extract.NewExtractor(cfg.Lending.MaxLoanAmount, cfg.Lending.IdiomDefaultAmount),
		Policy:    affordability.PolicyFromConfig(cfg.Lending),
		Logger:    log.With(map[string]interface{}{"component": "orchestrator"}),
	})
	if err != nil {
		log.Error("Failed to initialize orchestrator", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	chat := services.NewChatService(orchestrator, sessionManager, store, sender, log)

	followUps := jobs.NewFollowUpJob(sessionManager, sender, cfg.Jobs.FollowUpInterval, cfg.Jobs.IdleWindow, log)
	followUps.Start(ctx)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName + " v" + cfg.Server.Version,
		BodyLimit:    maxUploadBytes,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	// Middleware
	app.Use(otelfiber.Middleware())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Deps{
		Config:   cfg,
		Chat:     chat,
		Sessions: sessionManager,
		Store:    store,
		Logger:   log,
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down", nil)
		followUps.Stop()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info("Server starting", map[string]interface{}{
		"port":        cfg.Server.Port,
		"environment": cfg.Server.Environment,
		"storage":     storageType(cfg),
		"sessions":    cfg.Session.Backend,
		"whatsapp":    sender != nil,
	})

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Error("Server stopped", map[string]interface{}{"error": err.Error()})
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(flushCtx); err != nil {
		log.Warn("Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if !cfg.Storage.UseMemory {
		database.Close()
	}
}

// newStore returns the seeded in-memory store or the PostgreSQL store,
// migrating and seeding an empty database.
func newStore(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.Store, error) {
	if cfg.Storage.UseMemory {
		log.Warn("Using in-memory storage (not for production!)", nil)
		return storage.NewSeededMemoryStore()
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	store := storage.NewDatabaseStore(db)
	if err := store.Migrate(); err != nil {
		return nil, err
	}

	profiles, err := storage.SeedProfiles()
	if err != nil {
		return nil, err
	}
	seeded, err := store.SeedIfEmpty(ctx, profiles)
	if err != nil {
		return nil, err
	}
	log.Info("Database ready", map[string]interface{}{"seeded_profiles": seeded})
	return store, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.SessionStore, error) {
	if cfg.Session.Backend == "redis" {
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("Using Redis session store", map[string]interface{}{"address": cfg.Redis.Address})
		return storage.NewRedisSessionStore(client), nil
	}
	return storage.NewMemorySessionStore(cfg.Session.TTL, time.Minute), nil
}

func storageType(cfg *config.Config) string {
	if cfg.Storage.UseMemory {
		return "memory"
	}
	return "postgres"
}
