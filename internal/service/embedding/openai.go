package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

// OpenAIEmbedder encodes text through an OpenAI-compatible embeddings
// endpoint. A custom base URL lets any compatible provider serve the model.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
	logger *zap.Logger
}

type OpenAIEmbedderConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
}

func NewOpenAIEmbedder(cfg OpenAIEmbedderConfig, logger *zap.Logger) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key must not be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 384
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEmbedder{
		client: &client,
		model:  cfg.Model,
		dim:    cfg.Dimension,
		logger: logger,
	}, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}

func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(e.model),
		Dimensions:     openai.Int(int64(e.dim)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		e.logger.Error("Embedding request failed",
			zap.String("model", e.model),
			zap.Int("texts", len(texts)),
			zap.Error(err),
		)
		return nil, errors.NewServiceError("embedding request failed", "embedding", "embed_texts", err)
	}

	vectors, err := vectorsFromResponse(resp.Data, len(texts), e.dim)
	if err != nil {
		return nil, errors.NewServiceError(err.Error(), "embedding", "embed_texts", nil)
	}

	return vectors, nil
}

// vectorsFromResponse places each embedding at its response Index. The API
// orders results by that field, not by slice position, so trusting slice
// order could silently misalign vectors with their source texts.
func vectorsFromResponse(data []openai.Embedding, count, dim int) ([][]float32, error) {
	if len(data) != count {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", count, len(data))
	}

	vectors := make([][]float32, count)
	for _, item := range data {
		if item.Index < 0 || item.Index >= int64(count) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		if vectors[item.Index] != nil {
			return nil, fmt.Errorf("duplicate embedding index %d", item.Index)
		}
		if len(item.Embedding) != dim {
			return nil, fmt.Errorf("unexpected embedding dimension %d", len(item.Embedding))
		}

		vec := make([]float32, dim)
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		vectors[item.Index] = vec
	}

	return vectors, nil
}
