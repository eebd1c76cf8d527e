// Package app assembles the classifier components from configuration for
// the API server and the operator CLI.
package app

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/cache"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/client"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/http/handler"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/config"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/normalize"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/stages"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/training"
)

// StagesConfig maps training settings onto the stage configuration
func StagesConfig(cfg *config.TrainingConfig) stages.Config {
	sc := stages.DefaultConfig()

	sc.Vectorizer.MaxFeatures = cfg.MaxFeatures
	if cfg.Language != "" {
		// languages without a bundled list train with no stop words
		sc.Vectorizer.Analyzer.StopWords = cfg.Language
	}
	if cfg.MinDF > 0 {
		sc.Vectorizer.MinDF = cfg.MinDF
	}

	if cfg.C > 0 {
		sc.SVM.C = cfg.C
	}
	if cfg.MaxIterations > 0 {
		sc.SVM.MaxIter = cfg.MaxIterations
	}
	if cfg.Tolerance > 0 {
		sc.SVM.Tolerance = cfg.Tolerance
	}
	sc.SVM.Seed = cfg.Seed

	if cfg.Folds > 0 {
		sc.Calibration.Folds = cfg.Folds
	}
	if cfg.MinCalibrationExamples > 0 {
		sc.Calibration.MinPositivesPerFold = cfg.MinCalibrationExamples
	}
	sc.Calibration.Seed = cfg.Seed

	if cfg.Parallelism > 0 {
		sc.SVM.Parallelism = cfg.Parallelism
		sc.Calibration.Parallelism = cfg.Parallelism
	}
	return sc
}

// TrainerConfig maps training settings onto the trainer configuration
func TrainerConfig(cfg *config.TrainingConfig) training.Config {
	tc := training.DefaultConfig()
	if cfg.TestSize > 0 && cfg.TestSize < 1 {
		tc.TestSize = cfg.TestSize
	}
	tc.Seed = cfg.Seed
	if cfg.Language != "" {
		tc.Language = cfg.Language
	}
	return tc
}

// TranslationTarget is the language input is translated into: the language
// the model was trained on, or the configured target for models that do not
// record one.
func TranslationTarget(cfg *config.TranslationConfig, model *pipeline.Artifact, logger *zap.Logger) string {
	if model == nil || model.Metadata.Language == "" {
		return cfg.TargetLanguage
	}
	if cfg.TargetLanguage != "" && !strings.EqualFold(cfg.TargetLanguage, model.Metadata.Language) {
		logger.Warn("translation target overridden by model language",
			zap.String("configured", cfg.TargetLanguage),
			zap.String("model", model.Metadata.Language),
		)
	}
	return model.Metadata.Language
}

// TranslationHealth returns the health check for the translation service,
// or nil when translation is disabled.
func TranslationHealth(cfg *config.TranslationConfig) handler.Pinger {
	if !cfg.Enabled {
		return nil
	}
	return client.NewTranslateClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
}

// NewNormalizer builds the text normalizer. With translation disabled input
// is declared to already be in the training language and passes through.
// kv may be nil, in which case translations are not cached.
func NewNormalizer(cfg *config.TranslationConfig, kv cache.KV, logger *zap.Logger) normalize.Normalizer {
	if !cfg.Enabled {
		logger.Info("translation disabled, input is used as is")
		return normalize.Passthrough{}
	}

	translator := client.NewLibreTranslator(
		client.NewTranslateClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
		cfg.MaxRetries,
		cfg.RetryBackoff,
	)
	if kv != nil {
		translator = cache.NewCachedTranslator(translator, kv, cfg.CacheTTL, logger)
	}

	logger.Info("translation enabled",
		zap.String("base_url", cfg.BaseURL),
		zap.String("target", cfg.TargetLanguage),
		zap.Bool("cached", kv != nil),
	)
	return normalize.NewTranslating(translator, cfg.TargetLanguage, cfg.Timeout)
}
