package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Shadpls/Eat-Already/internal/shared/config"
)

type (
	yelpSearchResponse struct {
		Businesses []Business `json:"businesses"`
	}

	// YelpClient issues business-search queries against the Yelp Fusion
	// API. Calls are single attempts with a bounded timeout; any failure
	// surfaces as ErrUpstream.
	YelpClient struct {
		httpClient *http.Client
		baseURL    string
		apiKey     string
	}
)

func NewYelpClient(cfg *config.Config) *YelpClient {
	return &YelpClient{
		httpClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		baseURL:    cfg.YelpBaseURL,
		apiKey:     cfg.YelpAPIKey,
	}
}

// Search queries businesses near location. term narrows the search and may
// be empty for an unconstrained query.
func (c *YelpClient) Search(ctx context.Context, location, term string, limit int) ([]Business, error) {
	params := url.Values{}
	params.Set("location", location)
	params.Set("term", term)
	params.Set("radius", strconv.Itoa(searchRadius))
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: yelp returned status %d", ErrUpstream, resp.StatusCode)
	}

	var body yelpSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding yelp response: %v", ErrUpstream, err)
	}

	return body.Businesses, nil
}
