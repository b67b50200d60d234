package vector

import (
	"testing"

	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

func TestBuildRejectsEmptyInput(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatalf("expected error building index from no vectors")
	}
}

func TestBuildRejectsMixedDimensions(t *testing.T) {
	_, err := Build([][]float32{{1, 2}, {1, 2, 3}})
	if err == nil {
		t.Fatalf("expected error for inconsistent dimensions")
	}
}

func TestSearchReturnsNearestFirst(t *testing.T) {
	ix, err := Build([][]float32{
		{0, 0},
		{10, 10},
		{1, 1},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	matches, err := ix.Search([]float32{0.9, 0.9}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Row != 2 {
		t.Fatalf("expected row 2 nearest, got %d", matches[0].Row)
	}
	if matches[1].Row != 0 {
		t.Fatalf("expected row 0 second, got %d", matches[1].Row)
	}
	if matches[0].Distance > matches[1].Distance {
		t.Fatalf("matches not ordered by distance: %v", matches)
	}
}

func TestSearchBreaksTiesByLowerRow(t *testing.T) {
	// Rows 0 and 2 are identical, so they tie for any query.
	ix, err := Build([][]float32{
		{1, 0},
		{5, 5},
		{1, 0},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	matches, err := ix.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if matches[0].Row != 0 || matches[1].Row != 2 {
		t.Fatalf("expected tie broken toward lower row, got %v", matches)
	}
}

func TestSearchBeforeBuildFails(t *testing.T) {
	var ix *FlatIndex
	_, err := ix.Search([]float32{1}, 1)
	if err == nil {
		t.Fatalf("expected IndexNotReadyError on nil index")
	}
	if !errors.IsIndexNotReady(err) {
		t.Fatalf("expected IndexNotReadyError, got %v", err)
	}
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	ix, err := Build([][]float32{{1, 2, 3}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if _, err := ix.Search([]float32{1, 2}, 1); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestSearchClampsK(t *testing.T) {
	ix, err := Build([][]float32{{0}, {1}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	matches, err := ix.Search([]float32{0}, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected k clamped to index size, got %d", len(matches))
	}
}
