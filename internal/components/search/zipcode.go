package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Shadpls/Eat-Already/internal/shared/config"
)

type (
	zipcodeInfoResponse struct {
		City string `json:"city"`
	}

	// ZipcodeClient resolves a postal code to a city via zipcodeapi.com.
	// Used as the fallback leg of location validation.
	ZipcodeClient struct {
		httpClient *http.Client
		baseURL    string
		apiKey     string
	}
)

func NewZipcodeClient(cfg *config.Config) *ZipcodeClient {
	return &ZipcodeClient{
		httpClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		baseURL:    cfg.ZipcodeBaseURL,
		apiKey:     cfg.ZipcodeAPIKey,
	}
}

// CityForZip returns the city a postal code resolves to, or ErrUpstream when
// the lookup fails.
func (c *ZipcodeClient) CityForZip(ctx context.Context, zip string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/info.json/%s/degrees", c.baseURL, c.apiKey, url.PathEscape(zip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: zipcode api returned status %d", ErrUpstream, resp.StatusCode)
	}

	var body zipcodeInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decoding zipcode response: %v", ErrUpstream, err)
	}

	return body.City, nil
}
