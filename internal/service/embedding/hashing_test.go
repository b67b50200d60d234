package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashingEmbedderIsDeterministic(t *testing.T) {
	emb := NewHashingEmbedder(128)

	a, err := emb.EmbedTexts(context.Background(), []string{"Bitcoin BTC"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	b, err := emb.EmbedTexts(context.Background(), []string{"Bitcoin BTC"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("embedding not deterministic at component %d", i)
		}
	}
}

func TestHashingEmbedderDimension(t *testing.T) {
	emb := NewHashingEmbedder(64)
	if emb.Dimension() != 64 {
		t.Fatalf("expected dimension 64, got %d", emb.Dimension())
	}

	vecs, err := emb.EmbedTexts(context.Background(), []string{"Ethereum", "Solana"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	for i, v := range vecs {
		if len(v) != 64 {
			t.Fatalf("vector %d has dimension %d", i, len(v))
		}
	}
}

func TestHashingEmbedderDefaultsDimension(t *testing.T) {
	emb := NewHashingEmbedder(0)
	if emb.Dimension() != 384 {
		t.Fatalf("expected default dimension 384, got %d", emb.Dimension())
	}
}

func TestHashingEmbedderNormalizesVectors(t *testing.T) {
	emb := NewHashingEmbedder(256)
	vecs, err := emb.EmbedTexts(context.Background(), []string{"Dogecoin DOGE meme coin"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	var sum float64
	for _, v := range vecs[0] {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Fatalf("expected unit norm, got %f", sum)
	}
}

func TestHashingEmbedderEmptyTextIsZeroVector(t *testing.T) {
	emb := NewHashingEmbedder(32)
	vecs, err := emb.EmbedTexts(context.Background(), []string{"   "})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	for _, v := range vecs[0] {
		if v != 0 {
			t.Fatalf("expected zero vector for blank text")
		}
	}
}

func TestHashingEmbedderSeparatesDistinctAssets(t *testing.T) {
	emb := NewHashingEmbedder(384)
	vecs, err := emb.EmbedTexts(context.Background(), []string{
		"Bitcoin (BTC) is a cryptocurrency with current price $50000.00 USD. Market cap rank: 1",
		"Ethereum (ETH) is a cryptocurrency with current price $3000.00 USD. Market cap rank: 2",
		"Bitcoin BTC",
	})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	btcQuery := vecs[2]
	if dist(btcQuery, vecs[0]) >= dist(btcQuery, vecs[1]) {
		t.Fatalf("expected BTC query closer to Bitcoin row than Ethereum row")
	}
}

func dist(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
