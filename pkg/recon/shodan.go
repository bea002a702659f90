package recon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// IntelClient looks up passive internet-intelligence data for a target. The
// payload is stored on the tech stack as-is; its schema is opaque to the
// engine.
type IntelClient interface {
	Lookup(ctx context.Context, target string) (json.RawMessage, error)
}

const defaultShodanBaseURL = "https://api.shodan.io"

// ShodanClient queries the Shodan host endpoint. The API key is injected at
// construction (sourced from configuration/environment, never a literal).
type ShodanClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewShodanClient builds a client with a bounded request timeout.
func NewShodanClient(apiKey string) *ShodanClient {
	return &ShodanClient{
		APIKey:  apiKey,
		BaseURL: defaultShodanBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches host intelligence for the target. A missing API key is an
// error the caller records as a degraded step, not a hard failure.
func (c *ShodanClient) Lookup(ctx context.Context, target string) (json.RawMessage, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("shodan api key not configured")
	}

	base := c.BaseURL
	if base == "" {
		base = defaultShodanBaseURL
	}
	endpoint := fmt.Sprintf("%s/shodan/host/%s?key=%s", base, url.PathEscape(target), url.QueryEscape(c.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shodan lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read shodan response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shodan lookup: status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("shodan lookup: malformed response")
	}
	return json.RawMessage(body), nil
}
