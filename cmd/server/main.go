package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/segyhp/settlement-engine/internal/config"
	"github.com/segyhp/settlement-engine/internal/handler"
	"github.com/segyhp/settlement-engine/internal/logger"
	"github.com/segyhp/settlement-engine/internal/repository"
	"github.com/segyhp/settlement-engine/internal/service"
)

const requestTimeout = 10 * time.Second

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logger.Setup(logger.LogConfig{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := repository.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Msg("migrations applied")
	}

	// Initialize Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = initRedis(cfg)
		defer redisClient.Close()
	}

	// Initialize repositories
	documentRepo := repository.NewDocumentRepository(db)
	contractRepo := repository.NewContractRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	userRepo := repository.NewUserRepository(db)
	recruitmentRepo := repository.NewRecruitmentRepository(db)
	sequences := initSequences(cfg, db, redisClient, documentRepo)

	// Initialize services
	documentService := service.NewDocumentService(documentRepo, contractRepo, agentRepo, sequences, cfg)
	recruitmentService := service.NewRecruitmentService(recruitmentRepo, agentRepo, userRepo)

	// Setup routes
	router := handler.NewRouter(handler.Routes{
		Documents:    handler.NewDocumentHandler(documentService, nil, requestTimeout),
		Recruitments: handler.NewRecruitmentHandler(recruitmentService, requestTimeout),
		Health:       handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout()),
		JWTSecret:    cfg.Auth.JWTSecret,
	})

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("env", cfg.Server.Env).
			Str("sequence_backend", cfg.Business.SequenceBackend).
			Str("recalculation_policy", cfg.Business.RecalculationPolicy).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func initSequences(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, counts repository.YearCounter) repository.SequenceAllocator {
	if cfg.Business.SequenceBackend == config.SequenceBackendRedis {
		return repository.NewRedisSequence(redisClient, counts)
	}
	return repository.NewPostgresSequence(db)
}
