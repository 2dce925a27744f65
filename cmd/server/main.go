package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/anmolsh/blockbridge/internal/auth"
	"github.com/anmolsh/blockbridge/internal/checksum"
	"github.com/anmolsh/blockbridge/internal/middleware"
	"github.com/anmolsh/blockbridge/internal/migrate"
	"github.com/anmolsh/blockbridge/internal/service"
	"github.com/anmolsh/blockbridge/internal/storage/sqlite"
	"github.com/anmolsh/blockbridge/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/blockbridge.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	sums, err := checksum.New(getEnv("CHECKSUM_STRATEGY", checksum.StrategyRolling32))
	if err != nil {
		slog.Error("Invalid checksum strategy", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath, sums)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath, "checksum_strategy", sums.Name())

	jwtManager := auth.NewJWTManager(jwtSecret, service.SessionDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	orch := migrate.NewOrchestrator(store, sums)
	resolver := migrate.NewResolver(store, store, orch)

	authSvc := service.NewAuthService(authenticator, jwtManager)
	migrationSvc := service.NewMigrationService(orch, resolver)
	projectSvc := service.NewProjectService(store)

	// Authenticated routes. RequireAuth runs outermost so the request logger
	// sees the verified identity.
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/migrate", migrationSvc.Migrate)
	api.HandleFunc("GET /v1/migration-status", migrationSvc.Status)
	api.HandleFunc("POST /v1/rollback", migrationSvc.Rollback)
	api.HandleFunc("GET /v1/profile", migrationSvc.Profile)
	api.HandleFunc("PUT /v1/profile", projectSvc.UpdateProfile)
	api.HandleFunc("GET /v1/settings", migrationSvc.Settings)
	api.HandleFunc("PUT /v1/settings", projectSvc.UpdateSettings)
	api.HandleFunc("GET /v1/projects", migrationSvc.Projects)
	api.HandleFunc("POST /v1/projects", projectSvc.CreateProject)
	api.HandleFunc("PUT /v1/projects/{id}", projectSvc.UpdateProject)
	api.HandleFunc("DELETE /v1/projects/{id}", projectSvc.DeleteProject)
	api.HandleFunc("GET /v1/projects/{id}/file", projectSvc.ProjectFile)

	mux := http.NewServeMux()
	mux.Handle("/v1/", middleware.RequireAuth(jwtManager)(middleware.Logging(api)))
	mux.HandleFunc("POST /v1/auth/register", authSvc.Register)
	mux.HandleFunc("POST /v1/auth/login", authSvc.Login)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := corsMiddleware(mux)

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
