package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxRetries = 3

// ErrNotFound is returned when the server does not know the requested trade.
var ErrNotFound = errors.New("trade not found")

// RestClientInterface defines the journal operations available over HTTP.
type RestClientInterface interface {
	List(ctx context.Context, filter journal.TradeFilter) ([]models.Trade, error)
	Get(ctx context.Context, id string) (models.Trade, error)
	Add(ctx context.Context, form journal.TradeForm) (models.Trade, error)
	Edit(ctx context.Context, id string, form journal.TradeForm) (models.Trade, error)
	Update(ctx context.Context, id string, update models.TradeUpdate) (models.Trade, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (models.TradeStats, error)
	Summary(ctx context.Context) (journal.Summary, error)
	Preview(ctx context.Context, buyPrice, sellPrice string, qty int) (journal.FormPreview, error)
}

// RestClient is a client for the journal HTTP API.
// It implements the RestClientInterface.
type RestClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	backoff func(attempt int) time.Duration
}

// ensure RestClient implements the interface
var _ RestClientInterface = (*RestClient)(nil)

// NewRestClient creates a new journal API client.
func NewRestClient(cfg *config.Client, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestClient{
		client:  client,
		logger:  logger,
		limiter: limiter,
		backoff: exponentialBackoff,
	}
}

// exponentialBackoff waits 1s, 2s, 4s...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// apiError is the error body returned by the server.
type apiError struct {
	Error string `json:"error"`
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx).SetError(&apiError{})

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			switch {
			case statusCode == http.StatusNotFound:
				return nil, ErrNotFound
			case statusCode == http.StatusTooManyRequests:
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			case statusCode >= http.StatusInternalServerError:
				shouldRetry = true
			}
		} else if ctx.Err() == nil { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			if err != nil {
				return nil, fmt.Errorf("request failed: %w", err)
			}
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), errorMessage(resp))
		}

		if retryAfter == 0 {
			retryAfter = c.backoff(i)
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err == nil {
		err = fmt.Errorf("status %s: %s", resp.Status(), errorMessage(resp))
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

func errorMessage(resp *resty.Response) string {
	if e, ok := resp.Error().(*apiError); ok && e.Error != "" {
		return e.Error
	}
	return resp.String()
}

// List fetches trades matching filter, most recent first.
func (c *RestClient) List(ctx context.Context, filter journal.TradeFilter) ([]models.Trade, error) {
	var trades []models.Trade
	req := c.client.R().SetResult(&trades)
	if filter.Type != "" {
		req.SetQueryParam("type", string(filter.Type))
	}
	if filter.Status != "" {
		req.SetQueryParam("status", string(filter.Status))
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return *resp.Result().(*[]models.Trade), nil
}

// Get fetches a single trade.
func (c *RestClient) Get(ctx context.Context, id string) (models.Trade, error) {
	req := c.client.R().
		SetPathParam("id", id).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades/{id}", req)
	if err != nil {
		return models.Trade{}, fmt.Errorf("failed to get trade %s: %w", id, err)
	}
	return *resp.Result().(*models.Trade), nil
}

// Add submits a create form.
func (c *RestClient) Add(ctx context.Context, form journal.TradeForm) (models.Trade, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(form).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/trades", req)
	if err != nil {
		return models.Trade{}, fmt.Errorf("failed to add trade: %w", err)
	}
	trade := resp.Result().(*models.Trade)
	c.logger.Info("Trade added", zap.String("id", trade.ID), zap.String("code", trade.Code))
	return *trade, nil
}

// Edit submits a full edit form for an existing trade.
func (c *RestClient) Edit(ctx context.Context, id string, form journal.TradeForm) (models.Trade, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(form).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPut, "/api/trades/{id}", req)
	if err != nil {
		return models.Trade{}, fmt.Errorf("failed to edit trade %s: %w", id, err)
	}
	return *resp.Result().(*models.Trade), nil
}

// Update merges partial fields into an existing trade.
func (c *RestClient) Update(ctx context.Context, id string, update models.TradeUpdate) (models.Trade, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(update).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPatch, "/api/trades/{id}", req)
	if err != nil {
		return models.Trade{}, fmt.Errorf("failed to update trade %s: %w", id, err)
	}
	return *resp.Result().(*models.Trade), nil
}

// Delete removes a trade. The caller is responsible for having confirmed it.
func (c *RestClient) Delete(ctx context.Context, id string) (bool, error) {
	var result struct {
		Deleted bool `json:"deleted"`
	}
	req := c.client.R().
		SetPathParam("id", id).
		SetQueryParam("confirm", "true").
		SetResult(&result)

	if _, err := c.doRequest(ctx, http.MethodDelete, "/api/trades/{id}", req); err != nil {
		return false, fmt.Errorf("failed to delete trade %s: %w", id, err)
	}
	return result.Deleted, nil
}

// Stats fetches the aggregate statistics.
func (c *RestClient) Stats(ctx context.Context) (models.TradeStats, error) {
	req := c.client.R().SetResult(&models.TradeStats{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/stats", req)
	if err != nil {
		return models.TradeStats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return *resp.Result().(*models.TradeStats), nil
}

// Summary fetches the dashboard view.
func (c *RestClient) Summary(ctx context.Context) (journal.Summary, error) {
	req := c.client.R().SetResult(&journal.Summary{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/summary", req)
	if err != nil {
		return journal.Summary{}, fmt.Errorf("failed to get summary: %w", err)
	}
	return *resp.Result().(*journal.Summary), nil
}

// Preview asks the server for the live form calculation.
func (c *RestClient) Preview(ctx context.Context, buyPrice, sellPrice string, qty int) (journal.FormPreview, error) {
	body := map[string]any{"buyPrice": buyPrice, "qty": qty}
	if sellPrice != "" {
		body["sellPrice"] = sellPrice
	}
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&journal.FormPreview{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/preview", req)
	if err != nil {
		return journal.FormPreview{}, fmt.Errorf("failed to get preview: %w", err)
	}
	return *resp.Result().(*journal.FormPreview), nil
}
