package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/domain"
)

// Translator converts a query in a supported source language to the working
// language. Implementations never fail the pipeline: when translation is
// impossible they return the input unchanged.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang string) string
}

// SarvamTranslator calls the Sarvam translation API for Indic languages.
type SarvamTranslator struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *zap.Logger
}

type translateRequest struct {
	Input               string `json:"input"`
	SourceLanguageCode  string `json:"source_language_code"`
	TargetLanguageCode  string `json:"target_language_code"`
	SpeakerGender       string `json:"speaker_gender"`
	Mode                string `json:"mode"`
	Model               string `json:"model"`
	EnablePreprocessing bool   `json:"enable_preprocessing"`
}

type translateResponse struct {
	Output string `json:"output"`
}

func NewSarvamTranslator(httpClient *http.Client, apiKey, baseURL string, logger *zap.Logger) *SarvamTranslator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.SarvamTimeout}
	}
	if baseURL == "" {
		baseURL = constants.APIConfig.SarvamBaseURL
	}

	return &SarvamTranslator{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Translate converts text to the working language. English input, unsupported
// source languages and any API failure all return the original text so a
// query is never lost to a translation problem.
func (t *SarvamTranslator) Translate(ctx context.Context, text, sourceLang string) string {
	if sourceLang == domain.WorkingLanguage {
		return text
	}
	if !domain.IsSupportedLanguage(sourceLang) {
		t.logger.Warn("Unsupported source language, skipping translation",
			zap.String("language", sourceLang),
		)
		return text
	}

	payload := translateRequest{
		Input:               text,
		SourceLanguageCode:  sourceLang,
		TargetLanguageCode:  domain.WorkingLanguage,
		SpeakerGender:       "Male",
		Mode:                "formal",
		Model:               "mayura:v1",
		EnablePreprocessing: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("Failed to marshal translation request", zap.Error(err))
		return text
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		t.logger.Error("Failed to build translation request", zap.Error(err))
		return text
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn("Translation request failed, using original text",
			zap.String("language", sourceLang),
			zap.Error(err),
		)
		return text
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.Warn("Failed to read translation response, using original text", zap.Error(err))
		return text
	}

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("Translation API returned non-OK status, using original text",
			zap.Int("status", resp.StatusCode),
			zap.String("language", sourceLang),
		)
		return text
	}

	var parsed translateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		t.logger.Warn("Failed to decode translation response, using original text", zap.Error(err))
		return text
	}

	if strings.TrimSpace(parsed.Output) == "" {
		return text
	}

	t.logger.Debug("Query translated",
		zap.String("source_language", domain.LanguageName(sourceLang)),
	)

	return parsed.Output
}
