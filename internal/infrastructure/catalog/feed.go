package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/logging"
	"github.com/swanbotanicals/skinmatch/internal/metrics"
)

const (
	maxAttempts        = 3
	defaultRetryDelay  = 500 * time.Millisecond
	defaultRefreshTTL  = 15 * time.Minute
	defaultFeedPerHour = 600
)

// FeedConfig configures a FeedClient.
type FeedConfig struct {
	BaseURL    string
	APIKey     string
	RefreshTTL time.Duration
	// RequestsPerHour bounds calls to the feed. Burst is 10.
	RequestsPerHour int
	// RetryDelay is the first backoff step; it doubles per attempt.
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// FeedClient reads the product catalog from an HTTP JSON feed and caches
// the last good result for RefreshTTL.
type FeedClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	refreshTTL  time.Duration
	retryDelay  time.Duration
	debug       bool

	group     singleflight.Group
	mu        sync.RWMutex
	cached    *StaticCatalog
	fetchedAt time.Time
	now       func() time.Time
}

// NewFeedClient creates a new feed client
func NewFeedClient(cfg FeedConfig) *FeedClient {
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = defaultFeedPerHour
	}
	refresh := cfg.RefreshTTL
	if refresh <= 0 {
		refresh = defaultRefreshTTL
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &FeedClient{
		httpClient:  httpClient,
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perHour)/3600), 10),
		refreshTTL:  refresh,
		retryDelay:  delay,
		now:         time.Now,
	}
}

// SetDebug enables per-attempt debug logging.
func (c *FeedClient) SetDebug(debug bool) {
	c.debug = debug
}

// backoff returns the wait after a failed attempt: retryDelay, then doubling.
func (c *FeedClient) backoff(attempt int) time.Duration {
	return c.retryDelay << (attempt - 1)
}

// List returns the current catalog, refreshing it when the cache is stale.
// A failed refresh falls back to the previous catalog when one exists.
func (c *FeedClient) List(ctx context.Context) ([]domain.Product, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.List(ctx)
}

// Get returns one product from the current catalog.
func (c *FeedClient) Get(ctx context.Context, id string) (*domain.Product, error) {
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Get(ctx, id)
}

func (c *FeedClient) catalog(ctx context.Context) (*StaticCatalog, error) {
	c.mu.RLock()
	cached, fetchedAt := c.cached, c.fetchedAt
	c.mu.RUnlock()

	if cached != nil && !fetchedAt.IsZero() && c.now().Sub(fetchedAt) < c.refreshTTL {
		return cached, nil
	}

	v, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		products, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		fresh := NewStaticCatalog(products)

		c.mu.Lock()
		c.cached = fresh
		c.fetchedAt = c.now()
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		metrics.CatalogFetchErrors.WithLabelValues("feed").Inc()
		if cached != nil {
			logging.Ctx(ctx).Warn().Err(err).Dur("retry_in", c.refreshTTL).Msg("catalog refresh failed, serving previous catalog")
			if ctx.Err() == nil {
				// Hold the previous catalog for another TTL before calling the feed again.
				c.mu.Lock()
				if c.cached == cached {
					c.fetchedAt = c.now()
				}
				c.mu.Unlock()
			}
			return cached, nil
		}
		return nil, err
	}

	return v.(*StaticCatalog), nil
}

// fetch downloads and maps the feed, retrying transient failures.
func (c *FeedClient) fetch(ctx context.Context) ([]domain.Product, error) {
	params := url.Values{}
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/v1/products", c.baseURL)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	log := logging.Ctx(ctx)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogUnavailable, err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Debug().Err(err).Int("attempt", attempt).Msg("feed request failed")
			}
			lastErr = err
			if !c.sleep(ctx, attempt) {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, ctx.Err())
			}
			continue
		}

		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: feed not found at %s", domain.ErrCatalogUnavailable, c.baseURL)
		}
		if status != http.StatusOK {
			if c.debug {
				log.Debug().Int("attempt", attempt).Int("status", status).Str("body", string(body)).Msg("feed error response")
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
			if status == http.StatusTooManyRequests {
				lastErr = fmt.Errorf("%w: %w: feed throttled", domain.ErrCatalogUnavailable, domain.ErrRateLimited)
			}
			if !c.sleep(ctx, attempt) {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, ctx.Err())
			}
			continue
		}

		var resp FeedResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: decode feed: %v", domain.ErrCatalogUnavailable, err)
		}

		products := make([]domain.Product, 0, len(resp.Products))
		for _, fp := range resp.Products {
			p := MapToProduct(fp)
			if err := ValidateProduct(p); err != nil {
				log.Warn().Str("sku", fp.SKU).Err(err).Msg("skipping invalid feed product")
				continue
			}
			products = append(products, p)
		}

		log.Info().Int("products", len(products)).Int("skipped", len(resp.Products)-len(products)).Msg("catalog feed loaded")
		return products, nil
	}

	log.Error().Err(lastErr).Int("attempts", maxAttempts).Msg("catalog feed retries exhausted")
	return nil, lastErr
}

func (c *FeedClient) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "skinmatch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", domain.ErrCatalogUnavailable, err)
	}
	return body, resp.StatusCode, nil
}

// sleep waits out the backoff for attempt. It reports false if ctx ends first.
func (c *FeedClient) sleep(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return true
	}
	t := time.NewTimer(c.backoff(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
