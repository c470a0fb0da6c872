// Package postgrest implements the store interfaces on top of the
// database's REST data plane. All access goes through the narrow /rest/v1
// surface: the restricted procedure for writes, filtered selects and a
// single-column update for the review path. There is no direct SQL
// connection anywhere in the process.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/business-partner/leads-backend/logger"
)

// Config carries the connection parameters of the REST data plane.
type Config struct {
	// BaseURL is the project URL, e.g. https://xyz.supabase.co
	BaseURL string
	// APIKey is sent as both the apikey header and the bearer token.
	APIKey string
	// Timeout bounds every request; zero means 10s.
	Timeout time.Duration
}

// Client is a minimal PostgREST HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a client from the given configuration. The client is
// usable even when unconfigured; Configured reports that state so callers
// can fail closed before attempting a call.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.GetLogger(),
	}
}

// Configured reports whether the client has both a base URL and a key.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// apiError is the error body PostgREST returns on rejection.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// remoteError turns a non-2xx response into an error carrying the remote
// message for diagnosis.
func remoteError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("postgrest: status %d: %s", status, apiErr.Message)
	}
	return fmt.Errorf("postgrest: status %d: %s", status, strings.TrimSpace(string(body)))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// Rpc invokes a named server-side procedure with a JSON argument payload.
// This is the only write entry point the client exposes for untrusted data.
func (c *Client) Rpc(ctx context.Context, fn string, args interface{}) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal rpc args: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, fn)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create rpc request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call rpc %s: %w", fn, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warnw("RPC rejected", "function", fn, "status", resp.StatusCode)
		return remoteError(resp.StatusCode, respBody)
	}

	c.logger.Debugw("RPC call succeeded", "function", fn)
	return nil
}

// Select fetches rows from a table with the given query parameters and a
// zero-based item range. It requests an exact count and returns the raw
// JSON body together with the total collection size.
func (c *Client) Select(ctx context.Context, table string, query url.Values, from, to int) ([]byte, int64, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create select request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Range-Unit", "items")
	req.Header.Set("Range", fmt.Sprintf("%d-%d", from, to))
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("select from %s: %w", table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	// 416 means the requested range starts past the end of the collection;
	// callers clamp and retry, so surface the count when it is present.
	if resp.StatusCode == http.StatusRequestedRangeNotSatisfiable {
		total, _ := parseContentRange(resp.Header.Get("Content-Range"))
		return []byte("[]"), total, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, remoteError(resp.StatusCode, body)
	}

	total, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return nil, 0, err
	}
	return body, total, nil
}

// Update patches rows matched by the query parameters and returns the
// updated representation.
func (c *Client) Update(ctx context.Context, table string, query url.Values, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal update payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create update request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remoteError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// parseContentRange extracts the total size from a Content-Range header of
// the form "0-9/42" or "*/0".
func parseContentRange(header string) (int64, error) {
	if header == "" {
		return 0, fmt.Errorf("missing Content-Range header")
	}
	idx := strings.LastIndex(header, "/")
	if idx == -1 || idx == len(header)-1 {
		return 0, fmt.Errorf("malformed Content-Range header %q", header)
	}
	totalPart := header[idx+1:]
	if totalPart == "*" {
		return 0, nil
	}
	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed Content-Range header %q", header)
	}
	return total, nil
}
