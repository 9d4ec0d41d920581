package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/models"
	"golang.org/x/time/rate"
)

// Structs for indexer API responses that wrap their payload.
type accountResponse struct {
	Account AccountInfo `json:"account"`
}

type blockResponse struct {
	Timestamp int64 `json:"timestamp"` // whole seconds
}

type assetResponse struct {
	Asset struct {
		Index  int64 `json:"index"`
		Params struct {
			Name     string `json:"name"`
			Decimals uint32 `json:"decimals"`
		} `json:"params"`
	} `json:"asset"`
}

type applicationResponse struct {
	Application struct {
		ID int64 `json:"id"`
	} `json:"application"`
}

// clientImpl implements the Service interface against the Algorand indexer
// REST API. Requests are paced with a rate limiter so a long paginated
// import stays polite, and block timestamps are cached because every
// transaction in a block resolves to the same one.
type clientImpl struct {
	baseURL    string
	httpClient http.Client
	limiter    *rate.Limiter
	blockCache *cache.Cache
}

// NewClient creates a new indexer client.
func NewClient(baseURL string, timeout time.Duration, requestsPerSec float64) Service {
	return &clientImpl{
		baseURL:    baseURL,
		httpClient: http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		blockCache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// get performs one rate-limited GET against the indexer and decodes the JSON
// body into out.
func (c *clientImpl) get(ctx context.Context, relativeURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+relativeURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call indexer API %s: %w", relativeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body) // Read body for context
		return fmt.Errorf("indexer API returned non-OK status %d for %s. Body: %s", resp.StatusCode, relativeURL, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode indexer response for %s: %w", relativeURL, err)
	}
	return nil
}

func (c *clientImpl) AccountInformation(ctx context.Context, address string) (*AccountInfo, error) {
	var data accountResponse
	if err := c.get(ctx, "/v2/accounts/"+url.PathEscape(address), &data); err != nil {
		return nil, err
	}
	return &data.Account, nil
}

func (c *clientImpl) SearchTransactions(ctx context.Context, query TransactionQuery) (*TransactionPage, error) {
	params := url.Values{}
	if query.Address != "" {
		params.Set("address", query.Address)
	}
	if query.AfterDate != "" {
		params.Set("after-time", query.AfterDate)
	}
	if query.BeforeDate != "" {
		params.Set("before-time", query.BeforeDate)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.NextToken != "" {
		params.Set("next", query.NextToken)
	}

	var page TransactionPage
	if err := c.get(ctx, "/v2/transactions?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// BlockTime resolves the round's block timestamp. Raw block timestamps are in
// whole seconds.
func (c *clientImpl) BlockTime(ctx context.Context, round uint64) (time.Time, error) {
	roundKey := strconv.FormatUint(round, 10)
	if cached, found := c.blockCache.Get(roundKey); found {
		return cached.(time.Time), nil
	}

	var block blockResponse
	if err := c.get(ctx, "/v2/blocks/"+roundKey, &block); err != nil {
		return time.Time{}, err
	}

	blockTime := time.Unix(block.Timestamp, 0).UTC()
	c.blockCache.Set(roundKey, blockTime, cache.DefaultExpiration)
	logger.L.Debug("Resolved block timestamp", "round", round, "timestamp", blockTime)
	return blockTime, nil
}

func (c *clientImpl) AssetByID(ctx context.Context, id int64) (*models.Asset, error) {
	var data assetResponse
	if err := c.get(ctx, "/v2/assets/"+strconv.FormatInt(id, 10), &data); err != nil {
		return nil, err
	}
	return &models.Asset{
		ID:       data.Asset.Index,
		Name:     data.Asset.Params.Name,
		Decimals: data.Asset.Params.Decimals,
	}, nil
}

// ApplicationByID confirms the application exists. On-chain applications
// carry no display name, so the resolver names the result itself.
func (c *clientImpl) ApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	var data applicationResponse
	if err := c.get(ctx, "/v2/applications/"+strconv.FormatInt(id, 10), &data); err != nil {
		return nil, err
	}
	return &models.Application{ID: data.Application.ID, Intent: models.IntentUnknown}, nil
}
