package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// HashingEmbedder is a deterministic local embedder: word and character
// trigram features hashed into a fixed-dimension vector, L2-normalized.
// It needs no network and always produces the same vector for the same text,
// which makes it the default when no embedding API key is configured and the
// workhorse for tests. Retrieval quality is cruder than a learned model but
// name/symbol lookups over ~100 catalog entries survive it fine.
type HashingEmbedder struct {
	dim int
}

func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &HashingEmbedder{dim: dim}
}

func (h *HashingEmbedder) Dimension() int {
	return h.dim
}

func (h *HashingEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = h.embed(text)
	}
	return vectors, nil
}

func (h *HashingEmbedder) embed(text string) []float32 {
	vec := make([]float32, h.dim)

	for _, feature := range features(text) {
		slot, sign := h.hash(feature)
		vec[slot] += sign
	}

	normalize(vec)
	return vec
}

// hash maps a feature to a vector slot plus a +-1 sign. Signed hashing keeps
// unrelated features from only ever accumulating, which would bias every
// vector toward the same orthant.
func (h *HashingEmbedder) hash(feature string) (int, float32) {
	hasher := fnv.New32a()
	hasher.Write([]byte(feature))
	sum := hasher.Sum32()

	slot := int(sum % uint32(h.dim))
	sign := float32(1)
	if (sum>>31)&1 == 1 {
		sign = -1
	}
	return slot, sign
}

func features(text string) []string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	words := strings.Fields(normalized)
	feats := make([]string, 0, len(words)*4)

	for _, word := range words {
		feats = append(feats, "w:"+word)

		runes := []rune(word)
		if len(runes) < 3 {
			continue
		}
		for i := 0; i+3 <= len(runes); i++ {
			feats = append(feats, "t:"+string(runes[i:i+3]))
		}
	}

	return feats
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
