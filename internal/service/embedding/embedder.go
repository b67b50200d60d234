package embedding

import "context"

// Embedder converts text into fixed-dimension vectors. The same Embedder
// instance must serve both index construction and query-time encoding;
// mixing models makes nearest-neighbor distances meaningless.
type Embedder interface {
	Dimension() int
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
