package api

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
)

// maxCatalogSize caps the body read from a catalog server
const maxCatalogSize = 16 << 20

// CatalogClient downloads catalog documents over HTTP with rate limiting and
// exponential backoff retries
type CatalogClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewCatalogClient creates a client from the fetch settings.
// If clock is nil, uses RealClock.
func NewCatalogClient(cfg config.FetchConfig, clock shared.Clock) *CatalogClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	burst := int(math.Ceil(cfg.RateLimit))
	if burst < 1 {
		burst = 1
	}
	return &CatalogClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		clock:       clock,
	}
}

// Fetch downloads the document at url. Network errors, 429 and 5xx responses are
// retried; other non-2xx responses fail at once.
func (c *CatalogClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	logger := common.LoggerFromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retryAfter, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		if _, ok := err.(*retryableError); !ok {
			return nil, err
		}
		lastErr = err

		if attempt >= c.maxRetries {
			break
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}
		logger.Log("WARNING", "Catalog fetch failed, retrying", map[string]interface{}{
			"url":     url,
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
		c.clock.Sleep(delay)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt makes one request. The duration is the server's Retry-After, if any.
func (c *CatalogClient) attempt(ctx context.Context, url string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/toml, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, 0, &retryableError{message: fmt.Sprintf("failed to read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var retryAfter time.Duration
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
		return nil, retryAfter, &retryableError{message: "rate limited (429)"}
	case resp.StatusCode >= 500:
		return nil, 0, &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, 0, fmt.Errorf("catalog server error (status %d): %s", resp.StatusCode, truncate(body, 200))
	}
	return body, 0, nil
}

// addJitter returns a duration between 50% and 150% of d
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		return string(body[:n]) + "..."
	}
	return string(body)
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message string
}

func (e *retryableError) Error() string {
	return e.message
}
