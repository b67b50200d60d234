package prompt

import (
	"fmt"
	"strings"
)

// ExtractorSystemInstruction drives structured intent extraction. The model
// sees the already-translated query, never the raw multilingual input.
const ExtractorSystemInstruction = "Extract the cryptocurrency name or symbol from the user's query."

// BuildExtractionPrompt asks for a single JSON object identifying the asset
// the user is asking about.
func BuildExtractionPrompt(query string) string {
	var b strings.Builder

	b.WriteString(ExtractorSystemInstruction)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("User query: %q\n\n", query))
	b.WriteString("Respond with a JSON object with this exact shape:\n")
	b.WriteString(`{"name": "<cryptocurrency name or empty string>", "symbol": "<ticker symbol or empty string>", "confidence": <0.0-1.0>, "reasoning": "<one short sentence>"}`)
	b.WriteString("\n\nIf the query does not mention any cryptocurrency, use empty strings and a low confidence.")

	return b.String()
}
