package prompt

import (
	"fmt"
	"strings"

	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/util"
)

// SynthesizerSystemInstruction keeps answers grounded and in English even
// when the original question was not.
const SynthesizerSystemInstruction = "You are a helpful cryptocurrency information assistant. Provide clear, concise answers about cryptocurrency prices and market data in English, regardless of the input language."

// BuildSynthesisPrompt renders the grounding context for the matched asset
// and asks for a conversational English answer. Only data from the context
// block may appear in the answer.
func BuildSynthesisPrompt(translatedQuery, sourceLang string, asset *domain.Asset) string {
	var b strings.Builder

	b.WriteString(SynthesizerSystemInstruction)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("A user asked about cryptocurrency in %s:\n", domain.LanguageName(sourceLang)))
	b.WriteString(fmt.Sprintf("Translated question: %q\n\n", translatedQuery))
	b.WriteString("Using the following cryptocurrency data, provide a natural, informative response in English that directly answers their question and includes relevant context. Keep the response concise but informative. ")
	b.WriteString("Include the price change percentage if it's significant. ")
	b.WriteString("Use only the data below; do not invent numbers.\n\n")
	b.WriteString(buildContextBlock(asset))
	b.WriteString("\nGenerate a response in a conversational tone in English:")

	return b.String()
}

func buildContextBlock(asset *domain.Asset) string {
	var b strings.Builder

	b.WriteString("Cryptocurrency Information:\n")
	b.WriteString(fmt.Sprintf("- Name: %s (%s)\n", asset.Name, asset.Symbol))
	b.WriteString(fmt.Sprintf("- Current Price: $%s\n", util.FormatMoney(asset.CurrentPrice)))
	b.WriteString(fmt.Sprintf("- 24h Price Change: $%s (%.2f%%)\n", util.FormatMoney(asset.PriceChange24h), asset.PriceChangePct24h))
	b.WriteString(fmt.Sprintf("- 24h High: $%s\n", util.FormatMoney(asset.High24h)))
	b.WriteString(fmt.Sprintf("- 24h Low: $%s\n", util.FormatMoney(asset.Low24h)))
	b.WriteString(fmt.Sprintf("- Market Cap Rank: #%d\n", asset.MarketCapRank))
	b.WriteString(fmt.Sprintf("- Market Cap: $%s (%s)\n", util.FormatMoney(asset.MarketCap), util.FormatCompactUSD(asset.MarketCap)))
	b.WriteString(fmt.Sprintf("- 24h Trading Volume: $%s (%s)\n", util.FormatMoney(asset.TotalVolume), util.FormatCompactUSD(asset.TotalVolume)))

	return b.String()
}
