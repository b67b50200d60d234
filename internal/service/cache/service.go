package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/util"
	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

// Service is a thin JSON-over-Redis layer. It caches synthesized answers and
// the last good catalog snapshot for warm starts.
type Service struct {
	client *redis.Client
	logger *zap.Logger
}

const (
	answerKeyPrefix    = "crypto:answer:"
	catalogSnapshotKey = "crypto:catalog:snapshot"
)

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

func (s *Service) Get(ctx context.Context, key string, dest any) error {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // Key doesn't exist - not an error
	}
	if err != nil {
		s.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			s.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return nil
}

func (s *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := s.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		s.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (s *Service) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

// AnswerKey derives a stable cache key from the raw query and language.
// The query is hashed so arbitrary user text never ends up in a key.
func AnswerKey(query, language string) string {
	sum := sha256.Sum256([]byte(util.Normalize(query)))
	return answerKeyPrefix + language + ":" + hex.EncodeToString(sum[:16])
}

// GetAnswer returns a cached answer for the query, or (nil, false) on miss.
func (s *Service) GetAnswer(ctx context.Context, query, language string) (*domain.Answer, bool) {
	key := AnswerKey(query, language)

	var answer domain.Answer
	if err := s.Get(ctx, key, &answer); err != nil {
		s.logger.Debug("Answer cache miss or error", zap.String("key", key))
		return nil, false
	}
	if answer.Text == "" {
		return nil, false
	}
	return &answer, true
}

// SetAnswer caches an answer with a short TTL matching price staleness tolerance.
func (s *Service) SetAnswer(ctx context.Context, query, language string, answer *domain.Answer) {
	key := AnswerKey(query, language)
	if err := s.Set(ctx, key, answer, constants.CacheTTL.Answer); err != nil {
		s.logger.Error("Failed to cache answer", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) GetCatalogSnapshot(ctx context.Context) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := s.Get(ctx, catalogSnapshotKey, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (s *Service) SetCatalogSnapshot(ctx context.Context, assets []domain.Asset) error {
	return s.Set(ctx, catalogSnapshotKey, assets, constants.CacheTTL.CatalogSnapshot)
}

func (s *Service) IsConnected(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

func (s *Service) Close() error {
	if err := s.client.Close(); err != nil {
		s.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	s.logger.Info("Redis disconnected")
	return nil
}
