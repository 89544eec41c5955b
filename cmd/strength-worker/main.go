// Package main runs the team-strength refit worker. It refits the strength
// table from stored match results on a cron schedule and serves health and
// metrics endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/config"
	"github.com/yourusername/gfps/internal/database"
	"github.com/yourusername/gfps/internal/health"
	"github.com/yourusername/gfps/internal/logger"
	"github.com/yourusername/gfps/internal/repository"
	"github.com/yourusername/gfps/internal/scheduler"
	"github.com/yourusername/gfps/internal/strength"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var errEmptyTable = errors.New("strength table has no teams")

func main() {
	var (
		configPath   = flag.String("config", "config/config.yaml", "Path to config file")
		createSchema = flag.Bool("create-schema", false, "Create missing tables before the first refit")
		once         = flag.Bool("once", false, "Refit once and exit")
		healthPort   = flag.String("health-port", "", "Health server port (defaults to metrics.port)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfigWithSecrets(ctx, *configPath)
	log := logger.NewLogger(cfg.App.LogLevel)

	if !cfg.HasDatabase() {
		log.Fatal("database.host must be set for the strength worker")
	}

	db, err := database.Initialize(ctx, &cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if *createSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("Failed to create schema")
		}
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.WithError(err).Fatal("Failed to create repositories")
	}

	table := strength.NewTable(nil)
	refresher := strength.NewRefresher(repos.MatchResults, table, cfg.Engine.LeagueStrength, cfg.StrengthLookback(), log).
		WithSink(repos.TeamStats, cfg.Strength.Season)

	// A failed first refit leaves the empty table in place; the schedule retries.
	if err := refresher.Refresh(ctx); err != nil {
		log.WithError(err).Error("Initial strength refit failed")
		if *once {
			os.Exit(1)
		}
	}
	if *once {
		log.WithField("teams", table.Snapshot().Len()).Info("Strength refit complete")
		return
	}

	sched := scheduler.NewScheduler(log)
	if _, err := sched.ScheduleStrengthRefit(cfg.Strength.Schedule, refresher); err != nil {
		log.WithError(err).Fatal("Failed to schedule strength refit")
	}
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	srv := health.NewServer(health.Config{
		ServiceName: "strength-worker",
		Version:     Version,
		Commit:      GitCommit,
		Port:        resolveHealthPort(*healthPort, cfg),
		MetricsPath: metricsPath(cfg),
		Logger:      log,
		Checks: map[string]health.Checker{
			"database":       health.PingCheck(db),
			"strength_table": tableCheck(table),
		},
	})
	if err := srv.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start health server")
	}
	srv.SetReady(true)

	log.WithFields(logrus.Fields{
		"schedule": cfg.Strength.Schedule,
		"next_run": sched.GetNextRun(),
		"teams":    table.Snapshot().Len(),
	}).Info("Strength worker running")

	<-ctx.Done()
	srv.SetReady(false)
	log.Info("Shutting down strength worker")
}

// tableCheck fails readiness until a refit has produced at least one team.
func tableCheck(table *strength.Table) health.Checker {
	return func(context.Context) error {
		if table.Snapshot().Len() == 0 {
			return errEmptyTable
		}
		return nil
	}
}

func resolveHealthPort(flagPort string, cfg *config.Config) string {
	if flagPort != "" {
		return flagPort
	}
	if cfg.Metrics.Port > 0 {
		return strconv.Itoa(cfg.Metrics.Port)
	}
	return ""
}

func metricsPath(cfg *config.Config) string {
	if !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.Path
}

func loadConfigWithSecrets(ctx context.Context, path string) *config.Config {
	bootstrap := logrus.New()
	bootstrap.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			bootstrap.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			bootstrap.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
