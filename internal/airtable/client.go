// Package airtable is the client of the upstream record store.
//
// Every request waits on a token-bucket limiter (Airtable allows five requests
// per second per base) and runs through a circuit breaker. Network errors,
// 429 and 5xx responses count as breaker failures and surface as
// ErrUnavailable; other 4xx responses are returned as *APIError.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
	"github.com/guttosm/rdcredit-service/internal/logger"
	"github.com/guttosm/rdcredit-service/internal/metrics"
)

const (
	defaultBaseURL   = "https://api.airtable.com/v0"
	defaultRateLimit = 5
	defaultTimeout   = 10 * time.Second
	// maxBatch is the most records Airtable accepts in one create or delete call.
	maxBatch = 10
)

var (
	// ErrUnavailable means the record store could not serve the request.
	ErrUnavailable = errors.New("record store unavailable")
	// ErrNotFound is returned by mutations addressing a record that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrPartialWrite marks a multi-step write that failed after it had
	// started changing the table.
	ErrPartialWrite = errors.New("partial write")
)

// APIError is a 4xx answer from the record store.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable %d %s: %s", e.StatusCode, e.Type, e.Message)
}

// Tables names the tables of the base.
type Tables struct {
	Customers string
	Companies string
	Expenses  string
	Wages     string
	Documents string
}

// DefaultTables returns the table names of the production base.
func DefaultTables() Tables {
	return Tables{
		Customers: "Customers",
		Companies: "Companies",
		Expenses:  "Expenses",
		Wages:     "Wages",
		Documents: "Documents",
	}
}

// Config holds the client settings.
type Config struct {
	APIKey  string
	BaseID  string
	BaseURL string
	// RateLimit is the sustained request rate in requests per second.
	RateLimit float64
	Timeout   time.Duration
	Tables    Tables
	Breaker   circuitbreaker.Config
}

// Client talks to the Airtable REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client. Zero config values fall back to defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Tables == (Tables{}) {
		cfg.Tables = DefaultTables()
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker = circuitbreaker.DefaultConfig()
		cfg.Breaker.Name = "airtable"
	}

	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		breaker:    circuitbreaker.New(cfg.Breaker),
		log:        logger.Component("airtable"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Breaker exposes the circuit breaker for readiness checks.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Ping lists one customer record to check credentials and reachability.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("maxRecords", "1")
	q.Set("pageSize", "1")
	var out listResponse[customerFields]
	return c.do(ctx, http.MethodGet, c.cfg.Tables.Customers, "", q, nil, &out)
}

// do performs one rate-limited, breaker-guarded request against table and
// decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, table, recordID string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("airtable rate limiter: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/" + url.PathEscape(c.cfg.BaseID) + "/" + url.PathEscape(table)
	if recordID != "" {
		endpoint += "/" + url.PathEscape(recordID)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var apiErr error
	start := time.Now()
	status := "error"

	err := c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		status = strconv.Itoa(resp.StatusCode)

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("airtable status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			// Client errors say nothing about upstream health.
			apiErr = decodeAPIError(resp.StatusCode, data)
			return nil
		}

		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			apiErr = fmt.Errorf("failed to decode airtable response: %w", err)
		}
		return nil
	})
	metrics.RecordUpstreamRequest(table, status, time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn().Err(err).Str("table", table).Str("method", method).Msg("Record store request failed")
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return apiErr
}

func decodeAPIError(status int, data []byte) error {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if json.Unmarshal(data, &body) != nil || len(body.Error) == 0 {
		return apiErr
	}

	// Airtable sends either a bare string or {type, message}.
	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body.Error, &detail) == nil {
		apiErr.Type = detail.Type
		if detail.Message != "" {
			apiErr.Message = detail.Message
		}
		return apiErr
	}
	var code string
	if json.Unmarshal(body.Error, &code) == nil {
		apiErr.Type = code
	}
	return apiErr
}

// isNotFound reports whether err is a 404 from the record store.
func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
