package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/service/translate"
	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

// Resolver maps a search signal to the nearest catalog asset and refreshes
// the underlying snapshot. Satisfied by market.Catalog.
type Resolver interface {
	ResolveSignal(ctx context.Context, signal string) (*domain.Asset, error)
	Refresh(ctx context.Context) error
}

// AnswerCache is the optional short-TTL answer cache. Satisfied by
// cache.Service; a nil cache disables caching.
type AnswerCache interface {
	GetAnswer(ctx context.Context, query, language string) (*domain.Answer, bool)
	SetAnswer(ctx context.Context, query, language string, answer *domain.Answer)
}

// Assistant runs the full query pipeline: translate, extract, resolve,
// synthesize. Translation, extraction and synthesis degrade gracefully;
// resolution is the only hard failure point.
type Assistant struct {
	translator  translate.Translator
	extractor   *Extractor
	resolver    Resolver
	synthesizer *Synthesizer
	answerCache AnswerCache
	logger      *zap.Logger
}

func New(
	translator translate.Translator,
	extractor *Extractor,
	resolver Resolver,
	synthesizer *Synthesizer,
	answerCache AnswerCache,
	logger *zap.Logger,
) *Assistant {
	return &Assistant{
		translator:  translator,
		extractor:   extractor,
		resolver:    resolver,
		synthesizer: synthesizer,
		answerCache: answerCache,
		logger:      logger,
	}
}

// Refresh replaces the catalog snapshot and semantic index.
func (a *Assistant) Refresh(ctx context.Context) error {
	return a.resolver.Refresh(ctx)
}

// Query answers a price question asked in any supported language.
func (a *Assistant) Query(ctx context.Context, rawQuery, sourceLang string) (*domain.Answer, error) {
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return nil, errors.NewValidationError("query must not be empty", "query", rawQuery)
	}
	if runes := []rune(query); len(runes) > constants.AIInputLimits.MaxQueryLength {
		query = string(runes[:constants.AIInputLimits.MaxQueryLength])
	}

	if a.answerCache != nil {
		if cached, ok := a.answerCache.GetAnswer(ctx, query, sourceLang); ok {
			a.logger.Debug("Answer cache hit", zap.String("language", sourceLang))
			return cached, nil
		}
	}

	translated := a.translator.Translate(ctx, query, sourceLang)

	signal := translated
	intent := a.extractor.Extract(ctx, translated)
	if intent != nil {
		signal = intent.SignalText()
	}

	asset, err := a.resolver.ResolveSignal(ctx, signal)
	if err != nil {
		a.logger.Error("Query resolution failed",
			zap.String("signal", signal),
			zap.Error(err),
		)
		return nil, err
	}

	text := a.synthesizer.Synthesize(ctx, translated, sourceLang, asset)

	answer := &domain.Answer{
		Text:  text,
		Asset: asset,
	}

	if a.answerCache != nil {
		a.answerCache.SetAnswer(ctx, query, sourceLang, answer)
	}

	a.logger.Info("Query answered",
		zap.String("language", sourceLang),
		zap.String("asset", asset.ID),
	)

	return answer, nil
}
