package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/focusapp/focus-server/internal/config"
	"github.com/focusapp/focus-server/internal/database"
	"github.com/focusapp/focus-server/internal/handlers"
	"github.com/focusapp/focus-server/internal/inference"
	"github.com/focusapp/focus-server/internal/middleware"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
	"github.com/focusapp/focus-server/internal/utils"
)

// @title Focus API
// @version 1.0.0
// @description Goal tracking service with daily cards, progress summaries and AI progress reports

// @contact.name API Support

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name focus_token

func main() {
	// Load .env before anything reads the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to MongoDB
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.Close(db)

	// Create indexes (unique email, tempuser TTL, owner lookups)
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	store := storage.NewMongoStore(db)
	ai := inference.NewClient(cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Version",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("focus")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Handlers
	authHandler := &handlers.AuthHandler{Store: store, Cfg: cfg}
	tempUserHandler := &handlers.TempUserHandler{Store: store, Cfg: cfg}
	goalHandler := &handlers.GoalHandler{Store: store}
	progressHandler := &handlers.ProgressHandler{Store: store}
	reportHandler := &handlers.ReportHandler{Store: store, AI: ai}
	healthHandler := &handlers.HealthHandler{Store: store, Cfg: cfg}

	app.Get("/health", healthHandler.Check)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.Version())

	// Per-IP sliding window; single-instance only, a multi-instance
	// deployment needs a shared counter store.
	api.Use(limiter.New(limiter.Config{
		Max:                    cfg.RateLimitMax,
		Expiration:             cfg.RateLimitWindow,
		LimiterMiddleware:      limiter.SlidingWindow{},
		SkipSuccessfulRequests: false,
	}))

	auth := middleware.RequireAuth([]byte(cfg.JWTSecret), cfg.CookieName)

	// Public auth routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", auth, authHandler.Me)
	api.Post("/temp-users", tempUserHandler.Create)

	// Goal routes
	api.Get("/goals/detail/:id", auth, goalHandler.Get)
	api.Get("/goals/:userId", auth, goalHandler.List)
	api.Post("/goals", auth, goalHandler.Create)
	api.Put("/goals/:id/status", auth, goalHandler.SetStatus)
	api.Put("/goals/:id", auth, goalHandler.Update)
	api.Post("/goals/:id/daily-card", auth, goalHandler.UpsertDailyCard)
	api.Delete("/goals/:id", auth, goalHandler.Delete)

	// Progress routes
	api.Post("/progress", auth, progressHandler.AddRecord)
	api.Get("/progress/:goalId/summary", auth, progressHandler.Summary)
	api.Get("/progress/:goalId", auth, progressHandler.List)
	api.Delete("/progress/:id/records/:recordId", auth, progressHandler.DeleteRecord)

	// Report generation gets its own tighter window on top of the global
	// limiter; the upstream endpoint rate-limits hard.
	api.Post("/reports/:goalId", limiter.New(limiter.Config{
		Max:               cfg.ReportLimitMax,
		Expiration:        cfg.RateLimitWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
	}), auth, reportHandler.Generate)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "resource not found", c.OriginalURL())
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler converts every unhandled error to the response envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	if ce, ok := err.(*types.CustomError); ok {
		return utils.ErrorResponse(c, ce.Code, ce.Message, ce.Details)
	}
	if fe, ok := err.(*fiber.Error); ok {
		return utils.ErrorResponse(c, fe.Code, fe.Message, "")
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "internal server error", "")
}
