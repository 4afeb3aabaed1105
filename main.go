package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/chapati23/morning-briefing/src/config"
	"github.com/chapati23/morning-briefing/src/database"
	"github.com/chapati23/morning-briefing/src/handlers"
	"github.com/chapati23/morning-briefing/src/logger"
	"github.com/chapati23/morning-briefing/src/metrics"
	"github.com/chapati23/morning-briefing/src/parsers/capitoltrades"
	"github.com/chapati23/morning-briefing/src/processors"
	"github.com/chapati23/morning-briefing/src/reference"
	"github.com/chapati23/morning-briefing/src/security"
	"github.com/chapati23/morning-briefing/src/services"
)

const cacheCleanupInterval = 10 * time.Minute

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	if config.Cfg.RunMode == "token" {
		authService := security.NewAuthService(config.Cfg.APIJWTSecret).WithTTL(config.Cfg.OperatorTokenTTL)
		if err := mintOperatorToken(os.Stdout, authService, config.Cfg.OperatorSubject); err != nil {
			logger.L.Error("Failed to mint operator token", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.L.Info("Morning briefing server starting...")

	logger.L.Info("Loading reference tables...", "path", config.Cfg.ReferenceDataPath)
	tables, err := reference.LoadOrDefault(config.Cfg.ReferenceDataPath)
	if err != nil {
		logger.L.Error("Failed to load reference tables", "error", err)
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations()

	m := metrics.NewMetrics(nil)

	htmlCache := cache.New(config.Cfg.HTMLCacheTTL, cacheCleanupInterval)
	digestCache := cache.New(config.Cfg.DigestCacheTTL, cacheCleanupInterval)

	matcher := processors.NewCommitteeMatcher(tables)
	scorer := processors.NewScoreProcessor(tables, matcher)
	parser := capitoltrades.NewParser(matcher, scorer,
		capitoltrades.WithPageURL(config.Cfg.TradesURL),
		capitoltrades.WithMinAnomalyBytes(config.Cfg.AnomalyMinDocBytes),
	)
	fetcher := services.NewFetchService(services.FetchOptionsFromConfig(config.Cfg), htmlCache, m)

	digestService := services.NewCongressTradeService(services.CongressTradeDeps{
		Fetcher:     fetcher,
		Parser:      parser,
		Filter:      processors.NewFilterProcessor(tables),
		Dedup:       processors.NewDedupProcessor(),
		Formatter:   processors.NewFormatProcessor(),
		Metrics:     m,
		DB:          database.DB,
		DigestCache: digestCache,
		TradesURL:   config.Cfg.TradesURL,
	})

	if config.Cfg.RunOnce {
		runOnce(digestService)
		return
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		DigestService: digestService,
		AuthService:   security.NewAuthService(config.Cfg.APIJWTSecret),
		Metrics:       m,
		DB:            database.DB,
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.L.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Graceful shutdown failed", "error", err)
	}
	if err := database.DB.Close(); err != nil {
		logger.L.Error("Failed to close database", "error", err)
	}
}

// mintOperatorToken prints a bearer token for the operator refresh endpoint.
func mintOperatorToken(w io.Writer, authService *security.AuthService, subject string) error {
	token, err := authService.GenerateToken(subject)
	if err != nil {
		return fmt.Errorf("generate operator token: %w", err)
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

// runOnce builds the digest a single time and prints it to stdout.
func runOnce(digestService *services.CongressTradeService) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	section, err := digestService.BuildDigest(ctx)
	if err != nil {
		logger.L.Warn("Digest built with errors", "error", err)
	}
	if section != nil {
		fmt.Print(services.RenderPlain(section))
	}
	if err != nil && !errors.Is(err, services.ErrSourceUnavailable) {
		os.Exit(1)
	}
}
