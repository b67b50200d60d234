package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/prompt"
	"github.com/kapu/crypto-price-assistant-go/internal/service/ai"
)

// JSONGenerator produces a structured completion. Satisfied by ai.ModelManager.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, preset ai.ModelPreset, dest any, opts *ai.GenerateOptions) (*ai.GenerateMetadata, error)
}

// Extractor pulls the asset name or symbol out of a translated query.
type Extractor struct {
	generator JSONGenerator
	logger    *zap.Logger
}

func NewExtractor(generator JSONGenerator, logger *zap.Logger) *Extractor {
	return &Extractor{
		generator: generator,
		logger:    logger,
	}
}

// Extract runs structured intent extraction. It returns nil when the model
// fails or extracts nothing; the caller falls back to the raw query as the
// search signal, so extraction problems never abort a query.
func (e *Extractor) Extract(ctx context.Context, translatedQuery string) *domain.ExtractedIntent {
	var intent domain.ExtractedIntent

	metadata, err := e.generator.GenerateJSON(
		ctx,
		prompt.BuildExtractionPrompt(translatedQuery),
		ai.PresetPrecise,
		&intent,
		nil,
	)
	if err != nil {
		e.logger.Warn("Intent extraction failed, falling back to raw query",
			zap.Error(err),
		)
		return nil
	}

	signal := intent.SignalText()
	if signal == "" {
		e.logger.Debug("Extraction returned no asset reference",
			zap.String("provider", metadata.Provider),
			zap.String("reasoning", intent.Reasoning),
		)
		return nil
	}

	e.logger.Debug("Intent extracted",
		zap.String("provider", metadata.Provider),
		zap.String("signal", signal),
		zap.Float64("confidence", intent.Confidence),
	)

	return &intent
}
