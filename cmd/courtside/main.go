package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/ingest/espn"
	"github.com/fortuna/courtside/internal/ingest/oddsapi"
	"github.com/fortuna/courtside/internal/logger"
	"github.com/fortuna/courtside/internal/notify"
	"github.com/fortuna/courtside/internal/ratelimit"
	"github.com/fortuna/courtside/internal/scheduler"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", os.Getenv("COURTSIDE_CONFIG"), "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level)
	logger.Info("Starting %s v%s - Live Totals Fade Service", serviceName, serviceVersion)

	store := cache.NewStore()
	limiter := ratelimit.NewBucket(cfg.Odds.BucketSize, cfg.Odds.RefillEvery)

	scoresClient := espn.New(cfg.Scores.BaseURL)
	logger.Info("✓ Score feed client ready (%s)", cfg.Scores.SportPath)

	var oddsClient *oddsapi.Client
	if cfg.Odds.Enabled {
		oddsClient = oddsapi.NewClient(cfg.Odds.BaseURL, cfg.Odds.APIKey, cfg.Odds.Timeout)
		logger.Info("✓ Odds client ready (%s, bucket %d / refill %v)",
			cfg.Odds.SportKey, cfg.Odds.BucketSize, cfg.Odds.RefillEvery)
	} else {
		logger.Info("Odds polling disabled; lines must be supplied per request")
	}

	var alerts scheduler.AlertSender
	if cfg.Telegram.Enabled {
		notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram notifier: %v", err)
		}
		alerts = notifier
		logger.Info("✓ Telegram alerts enabled (chat %d)", cfg.Telegram.ChatID)
	}

	format := cfg.Fade.ActiveFormat()

	schedulerConfig := &scheduler.Config{
		SportPath:         cfg.Scores.SportPath,
		OddsSportKey:      cfg.Odds.SportKey,
		ScorePollInterval: cfg.Scores.PollInterval,
		OddsPollInterval:  cfg.Odds.PollInterval,
		FetchTimeout:      cfg.Scores.Timeout,
		EnableOddsPolling: cfg.Odds.Enabled,
		Threshold:         cfg.Fade.Threshold,
		RegulationMinutes: format.RegulationMinutes,
		PeriodMinutes:     format.PeriodMinutes,
		AlertCooldown:     cfg.Telegram.Cooldown,
	}

	sched := scheduler.NewOrchestrator(scoresClient, oddsClient, store, limiter, alerts, schedulerConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)
	logger.Info("✓ Poller started")

	handler := rest.NewHandler(store, scoresClient, sched, cfg.Scores.SportPath, cfg.Fade.Threshold, format)
	restServer := rest.NewServer(cfg.Server.Port, handler)
	go func() {
		if err := restServer.Start(); err != nil {
			logger.Error("REST server error: %v", err)
		}
	}()

	logger.Info("✓ REST API listening on :%s", cfg.Server.Port)
	logger.Info("✓ %s v%s started successfully", serviceName, serviceVersion)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("REST server shutdown error: %v", err)
	}

	logger.Info("%s stopped", serviceName)
}
