// Package apiclient is the shared HTTP client for the dashboard's JSON backends.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// refreshSkew is how close to expiry a token may get before it is refreshed
// ahead of the request instead of waiting for a 401.
const refreshSkew = 30 * time.Second

// Authenticator supplies the bearer token and owns the refresh protocol.
type Authenticator interface {
	Token() string
	// Refresh obtains a new token. Concurrent callers may share one refresh.
	Refresh(ctx context.Context) error
	// Expire drops the session after an unrecoverable authentication failure.
	Expire(reason string)
}

// expiryAware is implemented by authenticators that know their token's expiry.
type expiryAware interface {
	NeedsRefresh(skew time.Duration) bool
}

// Config holds client configuration.
type Config struct {
	// Name labels the backend in logs and metrics, e.g. "primary" or "chat".
	Name       string
	BaseURL    string
	HTTPClient *http.Client
	// Limiter paces outgoing requests; nil disables pacing.
	Limiter *rate.Limiter
	// Headers are added to every request.
	Headers http.Header
}

// Client performs JSON requests against one backend.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	headers http.Header
	auth    Authenticator
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a client. auth may be nil for backends without a bearer session.
func New(cfg Config, auth Authenticator, logger *zap.Logger, m *metrics.Metrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	name := cfg.Name
	if name == "" {
		name = "primary"
	}

	return &Client{
		name:    name,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpClient,
		limiter: cfg.Limiter,
		headers: cfg.Headers.Clone(),
		auth:    auth,
		logger:  logging.OrNop(logger).With(zap.String("backend", name)),
		metrics: m,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request and returns the raw response body. A 401 triggers a
// single refresh-and-retry; if that fails the session is expired and the call
// returns a KindSessionExpired error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	if ea, ok := c.auth.(expiryAware); ok && ea.NeedsRefresh(refreshSkew) {
		if err := c.auth.Refresh(ctx); err != nil {
			c.logger.Debug("proactive refresh failed", zap.Error(err))
		}
	}

	respBody, status, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && c.auth != nil {
		if err := c.auth.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, &APIError{Kind: KindTransport, Method: method, Path: path, Err: ctx.Err()}
			}
			c.logger.Warn("session refresh failed", zap.String("path", path), zap.Error(err))
			c.auth.Expire("token refresh failed")
			return nil, newStatusError(method, path, status, respBody)
		}
		respBody, status, err = c.send(ctx, method, path, query, payload)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			c.auth.Expire("token rejected after refresh")
		}
	}

	if status >= 400 {
		apiErr := newStatusError(method, path, status, respBody)
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Stringer("kind", apiErr.Kind),
		)
		return nil, apiErr
	}
	return respBody, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, &APIError{Kind: KindTransport, Method: method, Path: path, Err: err}
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.auth != nil {
		if token := c.auth.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveHTTP(c.name, 0)
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("request canceled", zap.String("path", path))
		}
		return nil, 0, &APIError{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.ObserveHTTP(c.name, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &APIError{Kind: KindTransport, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return respBody, resp.StatusCode, nil
}
