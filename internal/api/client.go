package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Endpoint paths and the default backend address.
const (
	GeneratePath   = "/generate-sql"
	ExecutePath    = "/execute-sql"
	DefaultBaseURL = "http://localhost:8000"
)

// RequestIDHeader carries a per-request id the backend can log.
const RequestIDHeader = "X-Request-ID"

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds each call. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
}

// Client talks to the text-to-SQL backend.
type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := ValidateBaseURL(baseURL); err != nil {
		return nil, err
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "askql"
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   cfg.Timeout,
		userAgent: userAgent,
		client:    client,
		logger:    logger,
	}, nil
}

// ValidateBaseURL reports whether raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api url %q: missing host", raw)
	}
	return nil
}

// BaseURL returns the backend address the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Generate asks the backend to turn question into SQL and validate it.
func (c *Client) Generate(ctx context.Context, question string) (Generation, error) {
	body, err := c.post(ctx, GeneratePath, GenerateRequest{Question: question})
	if err != nil {
		return Generation{}, fmt.Errorf("generate sql: %w", err)
	}

	var raw struct {
		SQLQuery         *string `json:"sql_query"`
		ValidationResult *string `json:"validation_result"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Generation{}, fmt.Errorf("generate sql: %w: %v", ErrMalformedResponse, err)
	}
	if raw.SQLQuery == nil {
		return Generation{}, fmt.Errorf("generate sql: %w: missing sql_query", ErrMalformedResponse)
	}
	if raw.ValidationResult == nil {
		return Generation{}, fmt.Errorf("generate sql: %w: missing validation_result", ErrMalformedResponse)
	}

	return Generation{
		SQLQuery:         *raw.SQLQuery,
		ValidationResult: *raw.ValidationResult,
	}, nil
}

// Execute runs query on the backend. An absent or null "data" field yields an
// empty result.
func (c *Client) Execute(ctx context.Context, query string) (Execution, error) {
	body, err := c.post(ctx, ExecutePath, ExecuteRequest{Query: query})
	if err != nil {
		return Execution{}, fmt.Errorf("execute sql: %w", err)
	}

	var result Execution
	if err := json.Unmarshal(body, &result); err != nil {
		return Execution{}, fmt.Errorf("execute sql: %w: %v", ErrMalformedResponse, err)
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			slog.String("endpoint", path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("backend request completed",
		slog.String("endpoint", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Detail:     detailFromBody(body),
		}
	}
	return body, nil
}
