package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestTranslatePassesThroughEnglish(t *testing.T) {
	translator := NewSarvamTranslator(nil, "key", "http://unreachable.invalid", zap.NewNop())

	got := translator.Translate(context.Background(), "bitcoin price", "en-IN")
	if got != "bitcoin price" {
		t.Errorf("expected passthrough for English, got %q", got)
	}
}

func TestTranslatePassesThroughUnsupportedLanguage(t *testing.T) {
	translator := NewSarvamTranslator(nil, "key", "http://unreachable.invalid", zap.NewNop())

	got := translator.Translate(context.Background(), "bitcoin preis", "de-DE")
	if got != "bitcoin preis" {
		t.Errorf("expected passthrough for unsupported language, got %q", got)
	}
}

func TestTranslateCallsAPI(t *testing.T) {
	var gotKey string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-subscription-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"output": "what is the price of bitcoin"})
	}))
	defer server.Close()

	translator := NewSarvamTranslator(server.Client(), "test-key", server.URL, zap.NewNop())

	got := translator.Translate(context.Background(), "बिटकॉइन की कीमत क्या है", "hi-IN")
	if got != "what is the price of bitcoin" {
		t.Errorf("unexpected translation: %q", got)
	}

	if gotKey != "test-key" {
		t.Errorf("expected subscription key header, got %q", gotKey)
	}
	if gotBody["source_language_code"] != "hi-IN" {
		t.Errorf("expected source hi-IN, got %v", gotBody["source_language_code"])
	}
	if gotBody["target_language_code"] != "en-IN" {
		t.Errorf("expected target en-IN, got %v", gotBody["target_language_code"])
	}
	if gotBody["model"] != "mayura:v1" {
		t.Errorf("expected model mayura:v1, got %v", gotBody["model"])
	}
	if gotBody["enable_preprocessing"] != true {
		t.Errorf("expected enable_preprocessing true, got %v", gotBody["enable_preprocessing"])
	}
}

func TestTranslateFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	translator := NewSarvamTranslator(server.Client(), "test-key", server.URL, zap.NewNop())

	got := translator.Translate(context.Background(), "బిట్‌కాయిన్ ధర", "te-IN")
	if got != "బిట్‌కాయిన్ ధర" {
		t.Errorf("expected original text on server error, got %q", got)
	}
}

func TestTranslateFallsBackOnEmptyOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"output": "  "})
	}))
	defer server.Close()

	translator := NewSarvamTranslator(server.Client(), "test-key", server.URL, zap.NewNop())

	got := translator.Translate(context.Background(), "ಬಿಟ್ ಕಾಯಿನ್ ಬೆಲೆ", "kn-IN")
	if got != "ಬಿಟ್ ಕಾಯಿನ್ ಬೆಲೆ" {
		t.Errorf("expected original text on blank output, got %q", got)
	}
}
