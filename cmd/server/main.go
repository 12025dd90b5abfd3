package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"

	"github.com/cispa-hq/cispa/internal/api"
	"github.com/cispa-hq/cispa/internal/config"
	"github.com/cispa-hq/cispa/internal/db"
	"github.com/cispa-hq/cispa/internal/logger"
	"github.com/cispa-hq/cispa/internal/middleware"
)

func main() {
	configPath := flag.String("config", os.Getenv("CISPA_CONFIG"), "path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		panic(err)
	}
	if cfg.Auth.JWTSecret != "" {
		// middleware reads the signing secret from the environment
		os.Setenv("CISPA_JWT_SECRET", cfg.Auth.JWTSecret)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	commit := os.Getenv("CISPA_COMMIT")
	buildTime := os.Getenv("CISPA_BUILD_TIME")

	mux := http.NewServeMux()
	api.NewRouter(store, log).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"name": "CISPA API",
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	limiter := middleware.NewRateLimiter(cfg.Server.RatePerMinute)
	handler := middleware.RequestID(
		middleware.CORS(
			middleware.SecureHeaders(
				middleware.NoStore(
					limiter.Middleware(
						middleware.WithAuth(mux))))))

	log.Infof("CISPA server listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStore(cfg *config.Config) (api.Store, error) {
	if cfg.DB.Path == "" {
		return api.NewMemoryStore(), nil
	}
	return db.Open(cfg.DB.Path, cfg.DB.MigrationsDir)
}
