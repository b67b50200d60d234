package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/prompt"
	"github.com/kapu/crypto-price-assistant-go/internal/service/ai"
	"github.com/kapu/crypto-price-assistant-go/internal/util"
)

// TextGenerator produces a plain-text completion. Satisfied by ai.ModelManager.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, preset ai.ModelPreset, opts *ai.GenerateOptions) (string, *ai.GenerateMetadata, error)
}

// Synthesizer turns a resolved asset into a conversational English answer.
type Synthesizer struct {
	generator TextGenerator
	logger    *zap.Logger
}

func NewSynthesizer(generator TextGenerator, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		generator: generator,
		logger:    logger,
	}
}

// Synthesize never fails: when the model is unavailable it returns a fixed
// template carrying the asset's name, symbol and price, so the user always
// gets the number they asked for.
func (s *Synthesizer) Synthesize(ctx context.Context, translatedQuery, sourceLang string, asset *domain.Asset) string {
	text, metadata, err := s.generator.GenerateText(
		ctx,
		prompt.BuildSynthesisPrompt(translatedQuery, sourceLang, asset),
		ai.PresetCreative,
		nil,
	)
	if err != nil {
		s.logger.Warn("Answer synthesis failed, using template fallback",
			zap.String("asset", asset.ID),
			zap.Error(err),
		)
		return FallbackAnswer(asset)
	}

	s.logger.Debug("Answer synthesized",
		zap.String("provider", metadata.Provider),
		zap.String("asset", asset.ID),
		zap.Int("length", len(text)),
	)

	return text
}

// FallbackAnswer is the deterministic answer used when synthesis is degraded.
func FallbackAnswer(asset *domain.Asset) string {
	return fmt.Sprintf("%s (%s) is currently trading at $%s USD.",
		asset.Name, asset.Symbol, util.FormatMoney(asset.CurrentPrice))
}
