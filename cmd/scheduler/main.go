package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/segyhp/settlement-engine/internal/config"
	"github.com/segyhp/settlement-engine/internal/logger"
	"github.com/segyhp/settlement-engine/internal/repository"
	"github.com/segyhp/settlement-engine/internal/service"
)

const jobTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logger.Setup(logger.LogConfig{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	schedLog := logger.WithComponent("scheduler")
	schedLog.Info().Msg("starting settlement scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		schedLog.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()
	db.SetMaxOpenConns(2)

	documentRepo := repository.NewDocumentRepository(db)

	var sequences repository.SequenceAllocator
	if cfg.Business.SequenceBackend == config.SequenceBackendRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		sequences = repository.NewRedisSequence(redisClient, documentRepo)
	} else {
		sequences = repository.NewPostgresSequence(db)
	}

	jobs := service.NewMaintenance(documentRepo, sequences, schedLog)

	// Initialize cron scheduler
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	// Schedule tasks
	setupCronJobs(c, cfg, jobs)

	// Start the scheduler
	c.Start()
	schedLog.Info().Str("timezone", cfg.Scheduler.Timezone).Msg("scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	schedLog.Info().Msg("shutting down scheduler")
	<-c.Stop().Done()
	schedLog.Info().Msg("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, jobs *service.Maintenance) {
	// Nightly settlement audit
	_, err := c.AddFunc(cfg.Scheduler.AuditSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		repaired, err := jobs.AuditSettlements(ctx)
		if err != nil {
			log.Error().Err(err).Msg("settlement audit failed")
			return
		}
		log.Info().Int("repaired", repaired).Msg("settlement audit finished")
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", cfg.Scheduler.AuditSpec).Msg("error scheduling settlement audit job")
	}

	// Year-end document counter warm-up
	_, err = c.AddFunc(cfg.Scheduler.WarmupSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := jobs.WarmSequences(ctx); err != nil {
			log.Error().Err(err).Msg("sequence warm-up failed")
		}
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", cfg.Scheduler.WarmupSpec).Msg("error scheduling sequence warm-up job")
	}

	log.Info().Msg("cron jobs scheduled")
}
