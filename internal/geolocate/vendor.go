package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// vendorCacheTTL bounds how long a vendor position is reused before the API
// is asked again
const vendorCacheTTL = 15 * time.Second

// VendorClient calls the vendor mapping API's geolocation endpoint.
// Responses are cached briefly per owner to keep quota usage down.
type VendorClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
}

// vendorPositionResponse is the vendor's geolocation payload
type vendorPositionResponse struct {
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Message   string  `json:"message,omitempty"`
}

// NewVendorClient creates a vendor geolocation client
func NewVendorClient(baseURL, apiKey string, timeout time.Duration) *VendorClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &VendorClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: gocache.New(vendorCacheTTL, time.Minute),
	}
}

// Source implements Provider
func (c *VendorClient) Source() models.PositionSource {
	return models.SourceVendor
}

// Position implements Provider by calling the vendor geolocation endpoint
func (c *VendorClient) Position(ctx context.Context, ownerID string) (models.PositionSample, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return models.PositionSample{}, fmt.Errorf("vendor geolocation not configured")
	}

	if cached, ok := c.cache.Get(ownerID); ok {
		return cached.(models.PositionSample), nil
	}

	endpoint := fmt.Sprintf("%s/v1/position?key=%s&device=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(ownerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.PositionSample{}, fmt.Errorf("failed to create vendor request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PositionSample{}, fmt.Errorf("vendor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PositionSample{}, fmt.Errorf("vendor returned HTTP %d", resp.StatusCode)
	}

	var body vendorPositionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.PositionSample{}, fmt.Errorf("failed to parse vendor response: %w", err)
	}
	if body.Status != "ok" {
		return models.PositionSample{}, fmt.Errorf("vendor error: %s", body.Message)
	}

	sample := models.PositionSample{
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Accuracy:  body.Accuracy,
		Timestamp: time.Now().Unix(),
		Source:    models.SourceVendor,
	}
	c.cache.Set(ownerID, sample, vendorCacheTTL)
	return sample, nil
}
