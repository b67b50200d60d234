package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/util"
)

// ModelManager routes generation requests to the primary Gemini provider and
// falls back to OpenAI when the primary fails. A shared circuit breaker stops
// traffic to both providers after repeated service-level failures.
type ModelManager struct {
	primary        Provider
	fallback       Provider
	logger         *zap.Logger
	enableFallback bool
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey       string
	OpenAIAPIKey       string
	DefaultGeminiModel string
	DefaultOpenAIModel string
	EnableFallback     bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	primary, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.DefaultGeminiModel, logger)
	if err != nil {
		return nil, err
	}

	mm := &ModelManager{
		primary:        primary,
		logger:         logger,
		enableFallback: cfg.EnableFallback && cfg.OpenAIAPIKey != "",
	}

	if fallback := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.DefaultOpenAIModel, logger); fallback != nil {
		mm.fallback = fallback
		logger.Info("OpenAI fallback enabled", zap.String("model", fallback.defaultModel))
	} else {
		logger.Info("OpenAI fallback disabled (no API key)")
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)

	return mm, nil
}

// GenerateText generates a plain text completion, trying the fallback
// provider if the primary fails.
func (mm *ModelManager) GenerateText(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (string, *GenerateMetadata, error) {
	if opts == nil {
		opts = &GenerateOptions{}
	}
	opts.JSONMode = false

	return mm.generate(ctx, prompt, preset, opts)
}

// GenerateJSON generates a completion in JSON mode and unmarshals it into
// dest. Markdown code fences around the payload are stripped first since
// models occasionally wrap JSON despite the MIME type hint.
func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error) {
	if opts == nil {
		opts = &GenerateOptions{}
	}
	opts.JSONMode = true

	text, metadata, err := mm.generate(ctx, prompt, preset, opts)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFence(text)

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		previewLen := util.Min(len(cleaned), 200)
		mm.logger.Error("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", cleaned[:previewLen]),
		)
		return nil, fmt.Errorf("invalid JSON from %s: %w", metadata.Provider, err)
	}

	return metadata, nil
}

func (mm *ModelManager) generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (string, *GenerateMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		nextRetry := "unknown"
		if status.NextRetryTime != nil {
			nextRetry = status.NextRetryTime.Format(time.Kitchen)
		}

		mm.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)

		return "", nil, fmt.Errorf("AI services are temporarily unavailable, next retry at %s", nextRetry)
	}

	primaryResult, primaryErr := mm.primary.Generate(ctx, prompt, preset, opts)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		text := strings.TrimSpace(primaryResult.Text)
		if text == "" {
			return "", nil, fmt.Errorf("%s API returned empty response", mm.primary.Name())
		}
		return text, &GenerateMetadata{
			Provider:     mm.primary.Name(),
			Model:        primaryResult.Model,
			UsedFallback: false,
		}, nil
	}

	if mm.enableFallback && mm.fallback != nil {
		fallbackResult, fallbackErr := mm.fallback.Generate(ctx, prompt, preset, opts)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			text := strings.TrimSpace(fallbackResult.Text)
			if text == "" {
				return "", nil, fmt.Errorf("%s API returned empty response", mm.fallback.Name())
			}
			return text, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}, nil
		}

		if mm.isServiceFailure(primaryErr) || mm.isServiceFailure(fallbackErr) {
			timeout := constants.CircuitBreakerConfig.ResetTimeout
			if mm.isRateLimitError(primaryErr) || mm.isRateLimitError(fallbackErr) {
				timeout = constants.CircuitBreakerConfig.RateLimitTimeout
			}
			mm.circuitBreaker.RecordFailure(timeout)
		}
		return "", nil, fmt.Errorf("all AI providers failed: %w", primaryErr)
	}

	if mm.isServiceFailure(primaryErr) {
		timeout := constants.CircuitBreakerConfig.ResetTimeout
		if mm.isRateLimitError(primaryErr) {
			timeout = constants.CircuitBreakerConfig.RateLimitTimeout
		}
		mm.circuitBreaker.RecordFailure(timeout)
	}
	return "", nil, primaryErr
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

func (mm *ModelManager) healthCheckPing() bool {
	mm.logger.Info("Health Check: Testing AI services...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	primaryOK := mm.primary.Ping(ctx)
	fallbackOK := false

	if mm.enableFallback && mm.fallback != nil {
		fallbackOK = mm.fallback.Ping(ctx)
	}

	isHealthy := primaryOK || fallbackOK

	mm.logger.Info("Health Check: Result",
		zap.Bool("gemini", primaryOK),
		zap.Bool("openai", fallbackOK),
		zap.Bool("healthy", isHealthy),
	)

	return isHealthy
}

func (mm *ModelManager) isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}

	if mm.isRateLimitError(err) {
		return true
	}

	statusRegex := regexp.MustCompile(`\b(5\d{2})\b`)
	if statusRegex.MatchString(msg) {
		return true
	}

	geminiCodeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := geminiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	openaiCodeRegex := regexp.MustCompile(`^(\d{3})\s`)
	if matches := openaiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func (mm *ModelManager) isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	geminiCodeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := geminiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code == 429
		}
	}

	openaiCodeRegex := regexp.MustCompile(`^(\d{3})\s`)
	if matches := openaiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code == 429
		}
	}

	return false
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}
