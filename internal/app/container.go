package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/config"
	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/service/ai"
	"github.com/kapu/crypto-price-assistant-go/internal/service/assistant"
	"github.com/kapu/crypto-price-assistant-go/internal/service/cache"
	"github.com/kapu/crypto-price-assistant-go/internal/service/embedding"
	"github.com/kapu/crypto-price-assistant-go/internal/service/market"
	"github.com/kapu/crypto-price-assistant-go/internal/service/refresh"
	"github.com/kapu/crypto-price-assistant-go/internal/service/translate"
)

// Container bundles the assembled services behind the assistant.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Catalog   *market.Catalog
	Assistant *assistant.Assistant
	Scheduler *refresh.Scheduler

	closers []func()
}

// Build assembles all infrastructure services. Heavy initialization (Redis,
// Postgres, AI clients) happens here so the caller gets either a fully-wired
// container or a clean failure with everything already torn down.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Optional cache: answers and catalog snapshots survive restarts when
	// Redis is configured, everything works without it.
	var cacheSvc *cache.Service
	if cfg.Redis.Enabled {
		cacheSvc, err = cache.NewService(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	} else {
		logger.Info("Redis disabled, running without answer cache and warm start")
	}

	// Optional refresh history recorder
	var recorder market.RefreshRecorder
	if cfg.Postgres.Host != "" {
		pgRecorder, pgErr := market.NewPostgresRecorder(ctx, cfg.Postgres, logger)
		if pgErr != nil {
			err = fmt.Errorf("failed to create postgres recorder: %w", pgErr)
			return nil, err
		}
		closers = append(closers, func() {
			_ = pgRecorder.Close()
		})
		recorder = pgRecorder
	} else {
		logger.Info("Postgres not configured, refresh history disabled")
	}

	// Embedder: remote when an embedding API key is present, deterministic
	// local hashing otherwise. The same instance serves index build and
	// query encoding.
	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder, err = embedding.NewOpenAIEmbedder(embedding.OpenAIEmbedderConfig{
			APIKey:    cfg.Embedding.APIKey,
			BaseURL:   cfg.Embedding.BaseURL,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		logger.Info("Using remote embeddings",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimension", cfg.Embedding.Dimension),
		)
	} else {
		embedder = embedding.NewHashingEmbedder(cfg.Embedding.Dimension)
		logger.Info("Using local hashing embeddings",
			zap.Int("dimension", cfg.Embedding.Dimension),
		)
	}

	// Market data and catalog
	providerClient := market.NewCoinGeckoClient(
		&http.Client{Timeout: constants.APIConfig.CoinGeckoTimeout},
		cfg.Provider.APIKey,
		cfg.Provider.BaseURL,
		cfg.Provider.PageSize,
		logger,
	)

	var snapshots market.SnapshotStore
	if cacheSvc != nil {
		snapshots = cacheSvc
	}
	catalog := market.NewCatalog(providerClient, embedder, recorder, snapshots, logger)

	// AI services
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	translator := translate.NewSarvamTranslator(
		&http.Client{Timeout: constants.APIConfig.SarvamTimeout},
		cfg.Translate.APIKey,
		cfg.Translate.BaseURL,
		logger,
	)

	var answerCache assistant.AnswerCache
	if cacheSvc != nil {
		answerCache = cacheSvc
	}

	asst := assistant.New(
		translator,
		assistant.NewExtractor(modelManager, logger),
		catalog,
		assistant.NewSynthesizer(modelManager, logger),
		answerCache,
		logger,
	)

	var scheduler *refresh.Scheduler
	if !cfg.Refresh.Disabled {
		scheduler = refresh.NewScheduler(catalog, cfg.Refresh.Schedule, logger)
	} else {
		logger.Info("Scheduled refresh disabled")
	}

	logger.Info("Container built",
		zap.Bool("redis", cacheSvc != nil),
		zap.Bool("postgres", recorder != nil),
		zap.Bool("scheduler", scheduler != nil),
	)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Assistant: asst,
		Scheduler: scheduler,
		closers:   closers,
	}, nil
}

// Close tears down infrastructure connections in reverse build order.
func (c *Container) Close() {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
