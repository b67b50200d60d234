package market

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/config"
)

const createRefreshHistoryTable = `
CREATE TABLE IF NOT EXISTS refresh_history (
	id            BIGSERIAL PRIMARY KEY,
	refreshed_at  TIMESTAMPTZ NOT NULL,
	asset_count   INTEGER NOT NULL,
	top_asset_id  TEXT NOT NULL DEFAULT '',
	top_asset_price DOUBLE PRECISION NOT NULL DEFAULT 0
)`

// PostgresRecorder writes one row per successful catalog refresh.
type PostgresRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRecorder(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresRecorder, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, createRefreshHistoryTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create refresh_history table: %w", err)
	}

	logger.Info("Postgres refresh recorder ready",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)

	return &PostgresRecorder{db: db, logger: logger}, nil
}

func (r *PostgresRecorder) RecordRefresh(ctx context.Context, record RefreshRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_history (refreshed_at, asset_count, top_asset_id, top_asset_price)
		 VALUES ($1, $2, $3, $4)`,
		record.RefreshedAt, record.AssetCount, record.TopAssetID, record.TopAssetPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh record: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
