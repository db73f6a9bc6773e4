package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/omarsaleh/divvy/docs"
	"github.com/omarsaleh/divvy/internal/config"
	"github.com/omarsaleh/divvy/internal/database"
	"github.com/omarsaleh/divvy/internal/receipt"
	"github.com/omarsaleh/divvy/internal/settlement"
	"github.com/omarsaleh/divvy/internal/split"
	"github.com/omarsaleh/divvy/internal/split/allocate"
	"github.com/omarsaleh/divvy/internal/user"
	"github.com/omarsaleh/divvy/pkg/logging"
	mw "github.com/omarsaleh/divvy/pkg/middleware"
)

// @title        Divvy API
// @version      1.0
// @description  Bill-split allocation and reconciliation engine.
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Allocation strategy factory
	allocFactory := allocate.NewFactory()

	// Split feature (flat splits through the allocator)
	splitRepo := split.NewRepository(db)
	splitService := split.NewService(splitRepo, allocFactory)
	splitHandler := split.NewHandler(splitService)

	// Receipt feature (itemized splits, claims, tax/tip distribution)
	receiptRepo := receipt.NewRepository(db)
	receiptService := receipt.NewService(receiptRepo, splitRepo)
	receiptHandler := receipt.NewHandler(receiptService)

	// Settlement feature (payment events and reconciliation)
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, splitRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Test-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.Env == "production" {
		r.Use(mw.CallerIdentity)
	} else {
		r.Use(mw.TestUserMiddleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/splits", splitHandler.Routes())
		r.Mount("/receipts", receiptHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
