package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/crypto-price-assistant-go/internal/constants"
	"github.com/kapu/crypto-price-assistant-go/internal/domain"
	"github.com/kapu/crypto-price-assistant-go/pkg/errors"
)

// AssetProvider fetches the current top assets from the market data provider.
type AssetProvider interface {
	FetchTopAssets(ctx context.Context) ([]domain.Asset, error)
}

// CoinGeckoClient pulls ranked market data from the CoinGecko /coins/markets
// endpoint. Transient failures (network, 5xx) retry with exponential backoff
// plus jitter; client errors fail immediately with a typed APIError.
type CoinGeckoClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	pageSize   int
	logger     *zap.Logger
}

func NewCoinGeckoClient(httpClient *http.Client, apiKey, baseURL string, pageSize int, logger *zap.Logger) *CoinGeckoClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.CoinGeckoTimeout}
	}
	if baseURL == "" {
		baseURL = constants.APIConfig.CoinGeckoBaseURL
	}
	if pageSize <= 0 {
		pageSize = constants.CatalogConfig.PageSize
	}

	return &CoinGeckoClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		logger:     logger,
	}
}

func (c *CoinGeckoClient) FetchTopAssets(ctx context.Context) ([]domain.Asset, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "24h")

	body, err := c.doRequest(ctx, "/coins/markets", params)
	if err != nil {
		return nil, err
	}

	var assets []domain.Asset
	if err := json.Unmarshal(body, &assets); err != nil {
		c.logger.Error("Failed to decode market data", zap.Error(err))
		apiErr := errors.NewAPIError("malformed market data response", 502, map[string]any{
			"body_preview": preview(body),
		})
		apiErr.Cause = err
		return nil, apiErr
	}

	for i := range assets {
		assets[i].Symbol = strings.ToUpper(assets[i].Symbol)
	}

	c.logger.Debug("Fetched market data",
		zap.Int("assets", len(assets)),
		zap.Int("page_size", c.pageSize),
	)

	return assets, nil
}

func (c *CoinGeckoClient) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if params != nil {
		reqURL += "?" + params.Encode()
	}

	var lastErr error

	for attempt := 0; attempt < constants.RetryConfig.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("x-cg-demo-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < constants.RetryConfig.MaxAttempts-1 {
				delay := computeDelay(attempt)
				c.logger.Warn("Market data request failed, retrying",
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == 429 {
			lastErr = errors.NewAPIError(fmt.Sprintf("provider error: %d", resp.StatusCode), resp.StatusCode, nil)
			if attempt < constants.RetryConfig.MaxAttempts-1 {
				delay := computeDelay(attempt)
				c.logger.Warn("Provider returned retryable status",
					zap.Int("status", resp.StatusCode),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		if resp.StatusCode >= 400 {
			return nil, errors.NewAPIError(fmt.Sprintf("provider client error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"url":  reqURL,
				"body": preview(body),
			})
		}

		return body, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("market data request failed")
}

func computeDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	return base + jitter
}

func preview(body []byte) string {
	const max = 200
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max])
}
