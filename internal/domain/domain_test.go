package domain

import "testing"

func TestAssetDescription(t *testing.T) {
	asset := Asset{
		Name:          "Bitcoin",
		Symbol:        "BTC",
		CurrentPrice:  50000,
		MarketCapRank: 1,
	}

	want := "Bitcoin (BTC) is a cryptocurrency with current price $50000.00 USD. Market cap rank: 1"
	if got := asset.Description(); got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
}

func TestSignalText(t *testing.T) {
	cases := []struct {
		name   string
		intent *ExtractedIntent
		want   string
	}{
		{"nil intent", nil, ""},
		{"name and symbol", &ExtractedIntent{Name: "Bitcoin", Symbol: "btc"}, "Bitcoin BTC"},
		{"name only", &ExtractedIntent{Name: "Ethereum"}, "Ethereum"},
		{"symbol only", &ExtractedIntent{Symbol: "sol"}, "SOL"},
		{"blank fields", &ExtractedIntent{Name: "  ", Symbol: " "}, ""},
	}

	for _, tc := range cases {
		if got := tc.intent.SignalText(); got != tc.want {
			t.Errorf("%s: SignalText() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsSupportedLanguage(t *testing.T) {
	for code := range SupportedLanguages {
		if !IsSupportedLanguage(code) {
			t.Errorf("expected %s to be supported", code)
		}
	}
	if IsSupportedLanguage("fr-FR") {
		t.Error("fr-FR should not be supported")
	}
	if LanguageName("hi-IN") != "Hindi" {
		t.Errorf("unexpected name for hi-IN: %s", LanguageName("hi-IN"))
	}
	if LanguageName("xx-XX") != "xx-XX" {
		t.Error("unknown codes should fall back to the code itself")
	}
}
