package domain

import "fmt"

// Asset is one tracked cryptocurrency from the market data provider.
// Numeric fields decode from the provider feed with zero defaults; a null or
// missing field never produces a pointer, so downstream formatting can assume
// plain numbers.
type Asset struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Symbol            string  `json:"symbol"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChange24h    float64 `json:"price_change_24h"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
	High24h           float64 `json:"high_24h"`
	Low24h            float64 `json:"low_24h"`
	MarketCap         float64 `json:"market_cap"`
	MarketCapRank     int     `json:"market_cap_rank"`
	TotalVolume       float64 `json:"total_volume"`
}

// Description renders the fixed-format text that gets embedded into the
// semantic index. Index construction and query-time embedding both rely on
// this exact shape staying stable.
func (a *Asset) Description() string {
	return fmt.Sprintf(
		"%s (%s) is a cryptocurrency with current price $%.2f USD. Market cap rank: %d",
		a.Name, a.Symbol, a.CurrentPrice, a.MarketCapRank,
	)
}
