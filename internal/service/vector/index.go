package vector

import (
	"sort"

	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

// Match is one nearest-neighbor hit: the row of the indexed vector and its
// squared L2 distance to the query. Squared distances preserve ordering, so
// no square root is taken.
type Match struct {
	Row      int
	Distance float64
}

// FlatIndex is an exhaustive L2 nearest-neighbor index over fixed-dimension
// vectors. Exhaustive scan is the right trade at catalog scale (~100 rows);
// the index is immutable after Build and safe for concurrent searches.
type FlatIndex struct {
	dim  int
	rows [][]float32
}

// Build constructs an index from the given vectors. All vectors must share
// one dimension; row order is preserved and defines the lookup order for
// whoever owns the indexed entries.
func Build(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, errors.NewValidationError("cannot build index from zero vectors", "vectors", 0)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.NewValidationError("vectors must have non-zero dimension", "dimension", 0)
	}

	rows := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.NewValidationError("inconsistent vector dimension", "row", i)
		}
		row := make([]float32, dim)
		copy(row, v)
		rows[i] = row
	}

	return &FlatIndex{dim: dim, rows: rows}, nil
}

func (ix *FlatIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.rows)
}

func (ix *FlatIndex) Dimension() int {
	if ix == nil {
		return 0
	}
	return ix.dim
}

// Search returns the k nearest rows to the query by squared L2 distance,
// closest first. Equal distances break toward the lower row so results stay
// deterministic. Searching a nil or empty index fails with IndexNotReadyError.
func (ix *FlatIndex) Search(query []float32, k int) ([]Match, error) {
	if ix == nil || len(ix.rows) == 0 {
		return nil, errors.NewIndexNotReadyError("semantic index has not been built")
	}
	if len(query) != ix.dim {
		return nil, errors.NewValidationError("query dimension does not match index", "dimension", len(query))
	}
	if k <= 0 {
		k = 1
	}
	if k > len(ix.rows) {
		k = len(ix.rows)
	}

	matches := make([]Match, len(ix.rows))
	for i, row := range ix.rows {
		matches[i] = Match{Row: i, Distance: squaredL2(query, row)}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Distance != matches[b].Distance {
			return matches[a].Distance < matches[b].Distance
		}
		return matches[a].Row < matches[b].Row
	})

	return matches[:k], nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
