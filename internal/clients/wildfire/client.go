package wildfire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dpup/trailfire/server/internal/lib/fire"
)

// DefaultURL queries every current wildland fire perimeter in WGS84
const DefaultURL = "https://services3.arcgis.com/T4QMspbfLg3qTGWY/arcgis/rest/services/Current_WildlandFire_Perimeters/FeatureServer/0/query?where=1%3D1&outFields=*&outSR=4326&f=json"

// HTTPDoer is the subset of *http.Client used by the client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches active fire perimeters from an ArcGIS FeatureServer
type Client struct {
	url        string
	httpClient HTTPDoer
}

// NewClient creates a client with its own HTTP client
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithHTTPDoer(url, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPDoer creates a client around any HTTPDoer, used in tests
func NewClientWithHTTPDoer(url string, doer HTTPDoer) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, httpClient: doer}
}

// FetchFires returns every fire perimeter currently published
func (c *Client) FetchFires(ctx context.Context) ([]fire.RawFireRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return Decode(resp.Body)
}

// Decode parses a FeatureServer query response into raw fire records
func Decode(r io.Reader) ([]fire.RawFireRecord, error) {
	var response FeatureQueryResponse
	if err := json.NewDecoder(r).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// ArcGIS reports query failures in the body with a 200 status
	if response.Error != nil {
		return nil, fmt.Errorf("API error %d: %s", response.Error.Code, response.Error.Message)
	}

	records := make([]fire.RawFireRecord, 0, len(response.Features))
	for _, feature := range response.Features {
		records = append(records, feature.toRecord())
	}
	return records, nil
}
