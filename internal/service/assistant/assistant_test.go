package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/service/ai"
	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

type fakeTranslator struct {
	output string
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) string {
	f.calls++
	if f.output != "" {
		return f.output
	}
	return text
}

type fakeJSONGenerator struct {
	intent *domain.ExtractedIntent
	err    error
}

func (f *fakeJSONGenerator) GenerateJSON(_ context.Context, _ string, _ ai.ModelPreset, dest any, _ *ai.GenerateOptions) (*ai.GenerateMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := json.Marshal(f.intent)
	if err := json.Unmarshal(data, dest); err != nil {
		return nil, err
	}
	return &ai.GenerateMetadata{Provider: "Gemini", Model: "test"}, nil
}

type fakeTextGenerator struct {
	text string
	err  error
}

func (f *fakeTextGenerator) GenerateText(_ context.Context, _ string, _ ai.ModelPreset, _ *ai.GenerateOptions) (string, *ai.GenerateMetadata, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.text, &ai.GenerateMetadata{Provider: "Gemini", Model: "test"}, nil
}

type fakeResolver struct {
	asset      *domain.Asset
	err        error
	lastSignal string
}

func (f *fakeResolver) ResolveSignal(_ context.Context, signal string) (*domain.Asset, error) {
	f.lastSignal = signal
	if f.err != nil {
		return nil, f.err
	}
	return f.asset, nil
}

func (f *fakeResolver) Refresh(_ context.Context) error { return nil }

func bitcoinAsset() *domain.Asset {
	return &domain.Asset{
		ID:            "bitcoin",
		Name:          "Bitcoin",
		Symbol:        "BTC",
		CurrentPrice:  50000,
		MarketCapRank: 1,
	}
}

func newTestAssistant(translator *fakeTranslator, jsonGen *fakeJSONGenerator, textGen *fakeTextGenerator, resolver *fakeResolver, cache AnswerCache) *Assistant {
	logger := zap.NewNop()
	return New(
		translator,
		NewExtractor(jsonGen, logger),
		resolver,
		NewSynthesizer(textGen, logger),
		cache,
		logger,
	)
}

func TestQueryEndToEnd(t *testing.T) {
	translator := &fakeTranslator{output: "what is the price of bitcoin"}
	jsonGen := &fakeJSONGenerator{intent: &domain.ExtractedIntent{Name: "Bitcoin", Symbol: "btc", Confidence: 0.95}}
	textGen := &fakeTextGenerator{text: "Bitcoin is currently trading at $50,000.00, holding the #1 spot by market cap."}
	resolver := &fakeResolver{asset: bitcoinAsset()}

	asst := newTestAssistant(translator, jsonGen, textGen, resolver, nil)

	answer, err := asst.Query(context.Background(), "बिटकॉइन की कीमत क्या है", "hi-IN")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if translator.calls != 1 {
		t.Errorf("expected 1 translation call, got %d", translator.calls)
	}
	if resolver.lastSignal != "Bitcoin BTC" {
		t.Errorf("expected extracted signal \"Bitcoin BTC\", got %q", resolver.lastSignal)
	}
	if answer.Asset == nil || answer.Asset.ID != "bitcoin" {
		t.Errorf("expected grounding asset bitcoin, got %+v", answer.Asset)
	}
	if answer.Text != textGen.text {
		t.Errorf("unexpected answer text: %q", answer.Text)
	}
}

func TestQuerySynthesisFailureUsesTemplateFallback(t *testing.T) {
	translator := &fakeTranslator{}
	jsonGen := &fakeJSONGenerator{intent: &domain.ExtractedIntent{Name: "Bitcoin", Symbol: "BTC"}}
	textGen := &fakeTextGenerator{err: fmt.Errorf("model unavailable")}
	resolver := &fakeResolver{asset: bitcoinAsset()}

	asst := newTestAssistant(translator, jsonGen, textGen, resolver, nil)

	answer, err := asst.Query(context.Background(), "bitcoin price", "en-IN")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	want := "Bitcoin (BTC) is currently trading at $50,000.00 USD."
	if answer.Text != want {
		t.Errorf("expected fallback %q, got %q", want, answer.Text)
	}
	if answer.Asset == nil || answer.Asset.ID != "bitcoin" {
		t.Error("fallback answer must still carry the grounding asset")
	}
}

func TestQueryExtractionFailureFallsBackToTranslatedQuery(t *testing.T) {
	translator := &fakeTranslator{output: "ethereum price please"}
	jsonGen := &fakeJSONGenerator{err: fmt.Errorf("model unavailable")}
	textGen := &fakeTextGenerator{text: "answer"}
	resolver := &fakeResolver{asset: bitcoinAsset()}

	asst := newTestAssistant(translator, jsonGen, textGen, resolver, nil)

	if _, err := asst.Query(context.Background(), "query", "hi-IN"); err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if resolver.lastSignal != "ethereum price please" {
		t.Errorf("expected translated query as signal, got %q", resolver.lastSignal)
	}
}

func TestQueryEmptyExtractionFallsBackToTranslatedQuery(t *testing.T) {
	translator := &fakeTranslator{output: "tell me a joke"}
	jsonGen := &fakeJSONGenerator{intent: &domain.ExtractedIntent{Confidence: 0.1, Reasoning: "no asset mentioned"}}
	textGen := &fakeTextGenerator{text: "answer"}
	resolver := &fakeResolver{asset: bitcoinAsset()}

	asst := newTestAssistant(translator, jsonGen, textGen, resolver, nil)

	if _, err := asst.Query(context.Background(), "tell me a joke", "en-IN"); err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if resolver.lastSignal != "tell me a joke" {
		t.Errorf("expected translated query as signal, got %q", resolver.lastSignal)
	}
}

func TestQueryResolutionErrorPropagates(t *testing.T) {
	translator := &fakeTranslator{}
	jsonGen := &fakeJSONGenerator{intent: &domain.ExtractedIntent{Name: "Bitcoin"}}
	textGen := &fakeTextGenerator{text: "answer"}
	resolver := &fakeResolver{err: errors.NewResolutionError("no catalog loaded; call Refresh first", nil)}

	asst := newTestAssistant(translator, jsonGen, textGen, resolver, nil)

	_, err := asst.Query(context.Background(), "bitcoin price", "en-IN")
	if err == nil {
		t.Fatal("expected resolution error")
	}
	if !errors.IsResolution(err) {
		t.Fatalf("expected ResolutionError, got %T", err)
	}
}

func TestQueryRejectsEmptyInput(t *testing.T) {
	asst := newTestAssistant(&fakeTranslator{}, &fakeJSONGenerator{}, &fakeTextGenerator{}, &fakeResolver{}, nil)

	_, err := asst.Query(context.Background(), "   ", "en-IN")
	if err == nil {
		t.Fatal("expected validation error for blank query")
	}
}

type fakeAnswerCache struct {
	answers map[string]*domain.Answer
	sets    int
}

func (f *fakeAnswerCache) GetAnswer(_ context.Context, query, language string) (*domain.Answer, bool) {
	answer, ok := f.answers[language+":"+query]
	return answer, ok
}

func (f *fakeAnswerCache) SetAnswer(_ context.Context, query, language string, answer *domain.Answer) {
	f.sets++
	f.answers[language+":"+query] = answer
}

func TestQueryUsesAnswerCache(t *testing.T) {
	translator := &fakeTranslator{}
	jsonGen := &fakeJSONGenerator{intent: &domain.ExtractedIntent{Name: "Bitcoin"}}
	textGen := &fakeTextGenerator{text: "fresh answer"}
	resolver := &fakeResolver{asset: bitcoinAsset()}
	cache := &fakeAnswerCache{answers: map[string]*domain.Answer{}}

	asst := newTestAssistant(translator, jsonGen, textGen, resolver, cache)

	first, err := asst.Query(context.Background(), "bitcoin price", "en-IN")
	if err != nil {
		t.Fatalf("first query failed: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("expected 1 cache write, got %d", cache.sets)
	}

	second, err := asst.Query(context.Background(), "bitcoin price", "en-IN")
	if err != nil {
		t.Fatalf("second query failed: %v", err)
	}

	if translator.calls != 1 {
		t.Errorf("cache hit should skip translation, got %d calls", translator.calls)
	}
	if second.Text != first.Text {
		t.Errorf("cached answer mismatch: %q vs %q", second.Text, first.Text)
	}
}
