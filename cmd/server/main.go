// Package main provides the entry point for the prediction API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/config"
	"github.com/hmp229/psa-predict/internal/datasource"
	"github.com/hmp229/psa-predict/internal/features"
	"github.com/hmp229/psa-predict/internal/health"
	"github.com/hmp229/psa-predict/internal/logger"
	"github.com/hmp229/psa-predict/internal/predictor"
	"github.com/hmp229/psa-predict/internal/rankings"
	"github.com/hmp229/psa-predict/internal/scheduler"
	"github.com/hmp229/psa-predict/internal/server"
	"github.com/hmp229/psa-predict/internal/service"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"sources":     cfg.SourceNames(),
	}).Info("Prediction service starting")

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Fetch.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         cfg.Fetch.RateLimitPerSec,
		CircuitBreakerMax: cfg.Fetch.CircuitBreakerMax,
	}, appLog)
	defer httpClient.Close()

	factory := datasource.NewFactory(appLog)
	sources, err := factory.BuildSources(cfg.Sources, httpClient)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build match-history sources")
	}

	rankingsClient := rankings.NewClient(
		httpClient,
		cfg.Rankings.BaseURL,
		time.Duration(cfg.Rankings.CacheTTLMinutes)*time.Minute,
		appLog,
	)

	core := predictor.New(features.NewExtractor(features.DefaultConfig()))
	predictionSvc := service.NewPredictionService(sources, rankingsClient, core, cfg.Fetch.MonthsBack, appLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Port:        strconv.Itoa(cfg.Server.HealthPort),
		Logger:      appLog,
		Upstream:    rankingsClient,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	sched := scheduler.NewScheduler(rankingsClient, appLog)
	if err := sched.ScheduleRankingsRefresh(cfg.Rankings.RefreshSchedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule rankings refresh")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	apiServer := server.NewServer(cfg, predictionSvc, appLog)
	if err := apiServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start API server")
	}

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"api_port":     cfg.Server.Port,
		"health_port":  cfg.Server.HealthPort,
		"next_refresh": sched.NextRun().Format(time.RFC3339),
	}).Info("Prediction service is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error shutting down API server")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error shutting down health server")
	}

	appLog.Info("Prediction service shut down successfully")
}
