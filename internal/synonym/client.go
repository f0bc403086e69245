package synonym

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client calls the external synonym-generation service: given a list of
// terms it returns, per term, the canonical entity's ordered synonym list
// (head form first). Needs SYNONYM_SERVICE_URL; the API key is optional.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type generateRequest struct {
	Terms []string `json:"terms"`
}

type generateResponse struct {
	Results [][]string `json:"results"`
}

// Generate returns one synonym list per input term. A failure here is an
// expected degradation; callers treat it as no-match.
func (c *Client) Generate(ctx context.Context, terms []string) ([][]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("synonym service not configured")
	}

	body, err := json.Marshal(generateRequest{Terms: terms})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synonyms", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synonym service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("synonym service non-200: %d", resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Results, nil
}
