package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/logger"
	"shopfront/internal/router"
	"shopfront/internal/store"
	"shopfront/internal/store/memory"
	mysqlstore "shopfront/internal/store/mysql"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Str("port", cfg.Port).Msg("Starting shopfront")

	// Balances and prices serialise as JSON numbers, matching the
	// storefront client's expectations.
	decimal.MarshalJSONWithoutQuotes = true

	var st store.Store
	if cfg.DBUrl != "" {
		database, err := db.InitDB(cfg.DBUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()

		if err := db.RunMigrations(database); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		if err := db.SeedCatalog(database); err != nil {
			log.Fatal().Err(err).Msg("Catalog seed failed")
		}

		st = mysqlstore.New(database, log)
		log.Info().Msg("Connected to database")
	} else {
		mem := memory.New()
		memory.Seed(mem)
		st = mem
		log.Warn().Msg("DB_URL not set, running on the in-memory store")
	}

	r := router.SetupRouter(st, cfg.JWTSecret, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
