package market

import (
	"context"
	"time"
)

// RefreshRecord summarizes one successful catalog refresh.
type RefreshRecord struct {
	RefreshedAt   time.Time
	AssetCount    int
	TopAssetID    string
	TopAssetPrice float64
}

// RefreshRecorder persists refresh history for later analysis.
type RefreshRecorder interface {
	RecordRefresh(ctx context.Context, record RefreshRecord) error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRefresh(_ context.Context, _ RefreshRecord) error { return nil }
