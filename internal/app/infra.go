package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	adaptercache "github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/cache"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/cache"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/config"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/database"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/inference"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/stages"
)

// OpenDatabase connects to PostgreSQL and runs migrations. It returns nil
// without error when the database is disabled.
func OpenDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	if !cfg.Enabled {
		logger.Info("database disabled, history is not recorded")
		return nil, nil
	}

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")

	if err := database.AutoMigrate(db); err != nil {
		CloseDatabase(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database migrations completed")
	return db, nil
}

// CloseDatabase closes the pool behind db, if any
func CloseDatabase(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// OpenRedis connects to Redis. Redis only backs the translation cache, so a
// disabled or unreachable server yields nil and the caller continues.
func OpenRedis(cfg *config.RedisConfig, logger *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		return nil
	}
	logger.Info("Connected to Redis")
	return client
}

// NewEngine builds the inference engine for model. Input is translated into
// the language the model was trained on. rdb may be nil.
func NewEngine(cfg *config.Config, model *pipeline.Artifact, rdb *redis.Client, logger *zap.Logger) *inference.Engine {
	var kv adaptercache.KV
	if rdb != nil {
		kv = rdb
	}
	translation := cfg.Translation
	translation.TargetLanguage = TranslationTarget(&cfg.Translation, model, logger)
	normalizer := NewNormalizer(&translation, kv, logger)
	// serving only applies fitted stages, so fit-time settings do not matter
	return inference.NewEngine(stages.New(stages.DefaultConfig()), normalizer, cfg.Inference.LabelAliases, logger)
}
