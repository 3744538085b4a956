package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinefeed/api"
	"cinefeed/config"
	"cinefeed/handlers"
	"cinefeed/services/catalog"
	"cinefeed/services/watchlist"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 cinefeed starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("CINEFEED_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if settings.TMDB.BearerToken == "" {
		log.Printf("warning: no TMDB bearer token configured; catalog endpoints will return 503 until %s is filled in", configPath)
	}

	catalogService := catalog.NewService(
		settings.TMDB.BearerToken,
		settings.TMDB.Language,
		settings.TMDB.Region,
		time.Duration(settings.Cache.ResponseTTLSeconds)*time.Second,
		time.Duration(settings.Cache.TrendingTTLSeconds)*time.Second,
	)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	detailsHandler := handlers.NewDetailsHandler(catalogService)

	watchlistService, err := watchlist.NewService(afero.NewOsFs(), settings.Cache.Directory)
	if err != nil {
		log.Fatalf("failed to initialise watchlist: %v", err)
	}
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)

	r := mux.NewRouter()
	api.Register(r, catalogHandler, detailsHandler, watchlistHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
