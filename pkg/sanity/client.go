// Package sanity is a thin read-only client for the headless content
// store. The catalog and news content live there; this backend only ever
// runs GROQ queries against the published dataset.
package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/business-partner/leads-backend/logger"
)

// ClientInterface defines the interface for content store queries.
type ClientInterface interface {
	Query(ctx context.Context, query string, params map[string]interface{}, result interface{}) error
}

// Config carries the content store connection settings.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	// UseCDN routes queries through the CDN edge; published content only.
	UseCDN bool
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ ClientInterface = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-03-10"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the client can reach a dataset.
func (c *Client) Configured() bool {
	return c.cfg.ProjectID != "" && c.cfg.Dataset != ""
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     float64         `json:"ms"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

func (c *Client) endpoint() string {
	host := fmt.Sprintf("%s.api.sanity.io", c.cfg.ProjectID)
	if c.cfg.UseCDN {
		host = fmt.Sprintf("%s.apicdn.sanity.io", c.cfg.ProjectID)
	}
	return fmt.Sprintf("https://%s/v%s/data/query/%s", host, c.cfg.APIVersion, c.cfg.Dataset)
}

// Query runs a GROQ query with the given parameters and decodes the result
// into the provided destination.
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, result interface{}) error {
	log := logger.GetLogger()

	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode query param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	finalURL := fmt.Sprintf("%s?%s", c.endpoint(), values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return fmt.Errorf("create content query request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute content query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Description != "" {
			log.Warnw("Content store rejected query", "status", resp.StatusCode, "description", errResp.Error.Description)
			return fmt.Errorf("content store: status %d: %s", resp.StatusCode, errResp.Error.Description)
		}
		return fmt.Errorf("content store: status %d", resp.StatusCode)
	}

	var queryResp queryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return fmt.Errorf("decode content query response: %w", err)
	}

	log.Debugw("Content query executed", "took_ms", queryResp.Ms)
	if result != nil && queryResp.Result != nil {
		if err := json.Unmarshal(queryResp.Result, result); err != nil {
			return fmt.Errorf("decode content query result: %w", err)
		}
	}
	return nil
}
