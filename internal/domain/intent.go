package domain

import "strings"

// ExtractedIntent is the structured result of LLM entity extraction over a
// translated query.
type ExtractedIntent struct {
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SignalText collapses the intent into the free-text signal handed to the
// resolver for embedding. Empty extractions yield an empty string; the caller
// decides the fallback.
func (ei *ExtractedIntent) SignalText() string {
	if ei == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if name := strings.TrimSpace(ei.Name); name != "" {
		parts = append(parts, name)
	}
	if symbol := strings.TrimSpace(ei.Symbol); symbol != "" {
		parts = append(parts, strings.ToUpper(symbol))
	}
	return strings.Join(parts, " ")
}
