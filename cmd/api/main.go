package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fridgelens/backend/config"
	"github.com/fridgelens/backend/internal/api"
	"github.com/fridgelens/backend/internal/database"
	"github.com/fridgelens/backend/internal/middleware"
	"github.com/fridgelens/backend/internal/router"
	"github.com/fridgelens/backend/internal/server"
	"github.com/fridgelens/backend/internal/service"
)

func main() {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize S3", zap.Error(err))
	}

	llmService, err := service.NewLLMService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}

	imageService, err := service.NewImageService(cfg, s3Config, logger)
	if err != nil {
		logger.Fatal("failed to initialize image service", zap.Error(err))
	}

	batchService := service.NewBatchService(llmService, imageService, logger)
	snapshotStore := service.NewRedisSnapshotStore(redisClient)

	engine := router.SetupRouter(router.Handlers{
		Ingredients:       api.NewIngredientHandler(llmService, logger),
		Generate:          api.NewGenerateHandler(batchService, snapshotStore, logger),
		Feasibility:       api.NewFeasibilityHandler(),
		Translate:         api.NewTranslateHandler(llmService, logger),
		GenerationLimiter: middleware.NewGenerationRateLimiter(redisClient),
		IdentifyLimiter:   middleware.NewIdentifyRateLimiter(redisClient),
	}, logger)

	srv := server.New(cfg, engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	if config.IsProduction() {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
