package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds ordinary JSON calls
	DefaultTimeout = 8 * time.Second
	// ReportTimeout bounds the heavier report queries
	ReportTimeout = 15 * time.Second
)

// ErrTimeout marks a call that hit its deadline, as opposed to one the
// server rejected. Callers branch on it with errors.Is.
var ErrTimeout = errors.New("backend request timed out")

// APIError is a server-rejected request with the backend's detail message
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Config holds the retail backend connection settings
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	ReportTimeout time.Duration
}

// Client is the HTTP client for the retail backend. One instance is shared
// by the sales, customer, cashbox and ledger gateways.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	reportTimeout time.Duration
	logger        *zap.Logger
}

// NewClient creates a backend client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL cannot be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	reportTimeout := cfg.ReportTimeout
	if reportTimeout <= 0 {
		reportTimeout = ReportTimeout
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{},
		timeout:       timeout,
		reportTimeout: reportTimeout,
		logger:        logger,
	}, nil
}

// do executes one JSON call with the given per-call timeout. A non-2xx
// response becomes an APIError carrying the backend's detail message; a
// deadline becomes ErrTimeout.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("backend call timed out",
				zap.String("method", method),
				zap.String("path", path),
				zap.Duration("timeout", timeout))
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Detail: resp.Status}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
			apiErr.Detail = payload.Detail
		}
	} else if len(raw) > 0 {
		apiErr.Detail = string(raw)
	}
	return apiErr
}
