package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/strata-survey/allocator"
	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/db"
	"github.com/danielhkuo/strata-survey/handlers"
	"github.com/danielhkuo/strata-survey/middleware"
	"github.com/danielhkuo/strata-survey/router"
)

func main() {
	var err error

	// Load .env if present (development convenience, non-fatal)
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the configured database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	cat := catalog.New(dbConn, cfg.DatabaseType)

	// Load the manifest into an empty catalog on startup
	if cfg.ManifestPath != "" {
		if _, _, err := handlers.ImportManifest(cat, cfg); err != nil {
			slog.Error("startup manifest import failed", "error", err)
			os.Exit(1)
		}
	}

	store, err := allocator.NewStore(cfg.DatabaseType, dbConn)
	if err != nil {
		slog.Error("allocator store init failed", "error", err)
		os.Exit(1)
	}
	alloc := allocator.New(store, allocator.Params{
		KTarget: cfg.KTarget,
		RTarget: cfg.RTarget,
		CoverM:  cfg.CoverM,
	})

	// Create router
	mux := router.NewRouter(dbConn, cfg, cat, alloc)

	// Create server (survey frontend is served from a different origin)
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "db", cfg.DatabaseType)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
