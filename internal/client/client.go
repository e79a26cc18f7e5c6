// Package client talks to the remote Food API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// FoodAPI is the contract the dashboard depends on
type FoodAPI interface {
	ListFoods(ctx context.Context) ([]models.Food, error)
	CreateFood(ctx context.Context, food models.Food) (*models.Food, error)
	UpdateFood(ctx context.Context, id int64, food models.Food) (*models.Food, error)
	DeleteFood(ctx context.Context, id int64) error
}

// Options configures a Client
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit int // Requests per second, 0 disables limiting
	RateBurst int

	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client
}

// Client implements FoodAPI over HTTP
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Food API client
func New(opts Options, logger *slog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    httpClient,
		limiter: limiter,
		logger:  logger,
	}
}

// ListFoods handles GET /foods.
// A null or empty body yields a nil slice, an empty array a non-nil empty slice.
func (c *Client) ListFoods(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if err := c.do(ctx, http.MethodGet, "/foods", nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// CreateFood handles POST /foods and returns the stored item with its server-assigned ID.
// A response without an ID is an error.
func (c *Client) CreateFood(ctx context.Context, food models.Food) (*models.Food, error) {
	var created models.Food
	if err := c.do(ctx, http.MethodPost, "/foods", food, &created); err != nil {
		return nil, err
	}
	if created.ID == 0 {
		return nil, fmt.Errorf("POST /foods: %w", ErrMissingID)
	}
	return &created, nil
}

// UpdateFood handles PUT /foods/{id}
func (c *Client) UpdateFood(ctx context.Context, id int64, food models.Food) (*models.Food, error) {
	var updated models.Food
	if err := c.do(ctx, http.MethodPut, foodPath(id), food, &updated); err != nil {
		return nil, err
	}
	if updated.ID == 0 {
		return nil, fmt.Errorf("PUT %s: %w", foodPath(id), ErrMissingID)
	}
	return &updated, nil
}

// DeleteFood handles DELETE /foods/{id}. The response body is ignored.
func (c *Client) DeleteFood(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, foodPath(id), nil, nil)
}

func foodPath(id int64) string {
	return "/foods/" + strconv.FormatInt(id, 10)
}

// do executes a JSON request and decodes the response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("food api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*maxErrorBody))
		return &APIError{
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: errorMessage(raw),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ FoodAPI = (*Client)(nil)
