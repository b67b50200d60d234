package market

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/internal/service/embedding"
	"github.com/kapu/crypto-price-assistant-go/internal/service/vector"
	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

// SnapshotStore persists the latest raw catalog entries so a restart can
// serve queries before the first provider round-trip. Failures are never
// fatal to a refresh.
type SnapshotStore interface {
	GetCatalogSnapshot(ctx context.Context) ([]domain.Asset, error)
	SetCatalogSnapshot(ctx context.Context, assets []domain.Asset) error
}

// generation is one atomically-published {entries, index} pair. The index's
// row order is the entries' slice order; the two never mix across
// generations because readers grab the whole pointer.
type generation struct {
	entries []domain.Asset
	index   *vector.FlatIndex
	builtAt time.Time
}

// Catalog owns the tracked-asset snapshot and its semantic index.
//
// Refresh builds a complete new generation off to the side and publishes it
// with a single pointer store, so a concurrent ResolveSignal always observes
// a consistent pair. All generation writers (Refresh, WarmStart) are
// serialized; reads never block.
type Catalog struct {
	provider  AssetProvider
	embedder  embedding.Embedder
	recorder  RefreshRecorder
	snapshots SnapshotStore
	logger    *zap.Logger

	refreshMu sync.Mutex
	current   atomic.Pointer[generation]
}

func NewCatalog(provider AssetProvider, embedder embedding.Embedder, recorder RefreshRecorder, snapshots SnapshotStore, logger *zap.Logger) *Catalog {
	if recorder == nil {
		recorder = NewNoopRecorder()
	}
	return &Catalog{
		provider:  provider,
		embedder:  embedder,
		recorder:  recorder,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Refresh replaces the catalog and index with a fresh provider snapshot.
// Any failure before the swap leaves the previous generation serving and
// surfaces as a DataRefreshError.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	assets, err := c.provider.FetchTopAssets(ctx)
	if err != nil {
		c.logger.Error("Catalog refresh failed at fetch", zap.Error(err))
		return errors.NewDataRefreshError("failed to fetch market data", "fetch", err)
	}
	if len(assets) == 0 {
		return errors.NewDataRefreshError("provider returned no assets", "fetch", nil)
	}

	gen, err := c.buildGeneration(ctx, assets)
	if err != nil {
		return err
	}

	c.current.Store(gen)

	c.logger.Info("Catalog refreshed",
		zap.Int("assets", len(gen.entries)),
		zap.Int("vectors", gen.index.Len()),
	)

	c.afterRefresh(ctx, gen)
	return nil
}

// WarmStart builds an initial generation from the persisted snapshot, if one
// exists. Used at startup so a provider outage does not leave the assistant
// unable to answer anything; a later Refresh replaces it wholesale.
func (c *Catalog) WarmStart(ctx context.Context) bool {
	if c.snapshots == nil {
		return false
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	assets, err := c.snapshots.GetCatalogSnapshot(ctx)
	if err != nil {
		c.logger.Warn("Failed to load catalog snapshot", zap.Error(err))
		return false
	}
	if len(assets) == 0 {
		return false
	}

	gen, err := c.buildGeneration(ctx, assets)
	if err != nil {
		c.logger.Warn("Failed to build generation from snapshot", zap.Error(err))
		return false
	}

	c.current.Store(gen)
	c.logger.Info("Catalog warm-started from snapshot", zap.Int("assets", len(assets)))
	return true
}

func (c *Catalog) buildGeneration(ctx context.Context, assets []domain.Asset) (*generation, error) {
	texts := make([]string, len(assets))
	for i := range assets {
		texts[i] = assets[i].Description()
	}

	vectors, err := c.embedAll(ctx, texts)
	if err != nil {
		c.logger.Error("Catalog refresh failed at embedding", zap.Error(err))
		return nil, errors.NewDataRefreshError("failed to embed catalog descriptions", "embed", err)
	}

	index, err := vector.Build(vectors)
	if err != nil {
		c.logger.Error("Catalog refresh failed at index build", zap.Error(err))
		return nil, errors.NewDataRefreshError("failed to build semantic index", "index", err)
	}

	entries := make([]domain.Asset, len(assets))
	copy(entries, assets)

	return &generation{
		entries: entries,
		index:   index,
		builtAt: time.Now(),
	}, nil
}

// embedAll encodes descriptions in parallel batches. Batches write to
// disjoint slice ranges, so no locking is needed on the output.
func (c *Catalog) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	batch := constants.EmbeddingConfig.BatchSize

	p := pool.New().WithContext(ctx).WithCancelOnError()
	for start := 0; start < len(texts); start += batch {
		start := start
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}
		p.Go(func(ctx context.Context) error {
			vecs, err := c.embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], vecs)
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Catalog) afterRefresh(ctx context.Context, gen *generation) {
	record := RefreshRecord{
		RefreshedAt: gen.builtAt,
		AssetCount:  len(gen.entries),
	}
	if len(gen.entries) > 0 {
		record.TopAssetID = gen.entries[0].ID
		record.TopAssetPrice = gen.entries[0].CurrentPrice
	}
	if err := c.recorder.RecordRefresh(ctx, record); err != nil {
		c.logger.Warn("Failed to record refresh", zap.Error(err))
	}

	if c.snapshots != nil {
		if err := c.snapshots.SetCatalogSnapshot(ctx, gen.entries); err != nil {
			c.logger.Warn("Failed to persist catalog snapshot", zap.Error(err))
		}
	}
}

// ResolveSignal embeds the signal text with the catalog's own embedder and
// returns the nearest catalog entry. Index and entries come from the same
// generation pointer, so a racing refresh can never produce a mixed read.
// There is no "not found" outcome: a nonsensical signal still resolves to
// the nearest vector.
func (c *Catalog) ResolveSignal(ctx context.Context, signal string) (*domain.Asset, error) {
	gen := c.current.Load()
	if gen == nil || len(gen.entries) == 0 {
		return nil, errors.NewResolutionError("no catalog loaded; call Refresh first", nil)
	}

	vecs, err := c.embedder.EmbedTexts(ctx, []string{signal})
	if err != nil {
		return nil, errors.NewResolutionError("failed to embed query signal", err)
	}

	matches, err := gen.index.Search(vecs[0], 1)
	if err != nil {
		return nil, errors.NewResolutionError("semantic search failed", err)
	}

	entry := gen.entries[matches[0].Row]

	c.logger.Debug("Signal resolved",
		zap.String("signal", signal),
		zap.String("asset", entry.ID),
		zap.Float64("distance", matches[0].Distance),
	)

	return &entry, nil
}

// Assets returns the current generation's entries in provider ranking order.
// The returned slice is a copy; callers cannot mutate catalog state.
func (c *Catalog) Assets() []domain.Asset {
	gen := c.current.Load()
	if gen == nil {
		return nil
	}
	out := make([]domain.Asset, len(gen.entries))
	copy(out, gen.entries)
	return out
}

func (c *Catalog) Size() int {
	gen := c.current.Load()
	if gen == nil {
		return 0
	}
	return len(gen.entries)
}

// IndexSize reports the vector count of the current generation. Always equal
// to Size; exposed so callers and tests can check the 1:1 invariant.
func (c *Catalog) IndexSize() int {
	gen := c.current.Load()
	if gen == nil {
		return 0
	}
	return gen.index.Len()
}

// LastRefreshedAt returns the build time of the current generation, zero if
// nothing is loaded yet.
func (c *Catalog) LastRefreshedAt() time.Time {
	gen := c.current.Load()
	if gen == nil {
		return time.Time{}
	}
	return gen.builtAt
}
