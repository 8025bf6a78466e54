package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.rentcast.io/v1"

// Client calls the RentCast API. All requests flow through getJSON, which
// consults the cache first; cache hits never touch the network.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   CacheRepository
}

// NewClient builds a client with the standard 30s timeout. A nil cache
// degrades to an in-process one.
func NewClient(apiKey string, cache CacheRepository) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
	}
}

// SearchProperties looks up property records by address. The API has returned
// both a bare array and a {"properties": [...]} wrapper over time, so both
// shapes decode.
func (c *Client) SearchProperties(ctx context.Context, address string, limit int) ([]PropertyRecord, error) {
	q := url.Values{}
	q.Set("address", address)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	raw, err := c.getJSON(ctx, "/properties", q)
	if err != nil {
		return nil, err
	}

	var records []PropertyRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var wrapped struct {
		Properties []PropertyRecord `json:"properties"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Properties != nil {
		return wrapped.Properties, nil
	}
	var single PropertyRecord
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode property search response: %w", err)
	}
	return []PropertyRecord{single}, nil
}

// ValueEstimate returns the AVM sale-value estimate for an address.
func (c *Client) ValueEstimate(ctx context.Context, address string, query EstimateQuery) (*ValueEstimate, error) {
	raw, err := c.getJSON(ctx, "/avm/value", estimateValues(address, query))
	if err != nil {
		return nil, err
	}
	var est ValueEstimate
	if err := json.Unmarshal(raw, &est); err != nil {
		return nil, fmt.Errorf("decode value estimate: %w", err)
	}
	return &est, nil
}

// RentEstimate returns the long-term rent estimate for an address.
func (c *Client) RentEstimate(ctx context.Context, address string, query EstimateQuery) (*RentEstimate, error) {
	raw, err := c.getJSON(ctx, "/avm/rent/long-term", estimateValues(address, query))
	if err != nil {
		return nil, err
	}
	var est RentEstimate
	if err := json.Unmarshal(raw, &est); err != nil {
		return nil, fmt.Errorf("decode rent estimate: %w", err)
	}
	return &est, nil
}

// MarketStatistics returns ZIP-level sale and rental statistics.
func (c *Client) MarketStatistics(ctx context.Context, zipCode string) (*MarketStats, error) {
	q := url.Values{}
	q.Set("zipCode", zipCode)

	raw, err := c.getJSON(ctx, "/markets", q)
	if err != nil {
		return nil, err
	}
	var stats MarketStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode market statistics: %w", err)
	}
	return &stats, nil
}

// SaleListings returns active sale listings in a ZIP for comp analysis.
func (c *Client) SaleListings(ctx context.Context, zipCode string, filter ListingFilter) ([]Listing, error) {
	return c.listings(ctx, "/listings/sale", zipCode, filter)
}

// RentalListings returns active rental listings in a ZIP for comp analysis.
func (c *Client) RentalListings(ctx context.Context, zipCode string, filter ListingFilter) ([]Listing, error) {
	return c.listings(ctx, "/listings/rental", zipCode, filter)
}

func (c *Client) listings(ctx context.Context, path, zipCode string, filter ListingFilter) ([]Listing, error) {
	q := url.Values{}
	q.Set("zipCode", zipCode)
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	q.Set("limit", strconv.Itoa(limit))
	if filter.Bedrooms != nil {
		q.Set("bedrooms", strconv.Itoa(*filter.Bedrooms))
	}
	if filter.Bathrooms != nil {
		q.Set("bathrooms", strconv.FormatFloat(*filter.Bathrooms, 'f', -1, 64))
	}
	if filter.SqftMin != nil {
		q.Set("sqftMin", strconv.Itoa(*filter.SqftMin))
	}
	if filter.SqftMax != nil {
		q.Set("sqftMax", strconv.Itoa(*filter.SqftMax))
	}
	if filter.PropertyType != "" {
		q.Set("propertyType", filter.PropertyType)
	}

	raw, err := c.getJSON(ctx, path, q)
	if err != nil {
		return nil, err
	}
	var listings []Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		// Non-array payloads mean no usable comps.
		return nil, nil
	}
	return listings, nil
}

func estimateValues(address string, query EstimateQuery) url.Values {
	q := url.Values{}
	q.Set("address", address)
	if query.PropertyType != "" {
		q.Set("propertyType", query.PropertyType)
	}
	if query.Bedrooms != nil {
		q.Set("bedrooms", strconv.Itoa(*query.Bedrooms))
	}
	if query.Bathrooms != nil {
		q.Set("bathrooms", strconv.FormatFloat(*query.Bathrooms, 'f', -1, 64))
	}
	if query.SquareFootage != nil {
		q.Set("squareFootage", strconv.Itoa(*query.SquareFootage))
	}
	if query.CompCount != nil {
		q.Set("compCount", strconv.Itoa(*query.CompCount))
	}
	return q
}

// getJSON performs a cached GET. The full request URL is the cache key.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	if cached, ok := c.cache.Get(fullURL); ok {
		log.Debug().Str("url", fullURL).Msg("market cache hit")
		return json.RawMessage(cached), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: status %d: %s", path, resp.StatusCode, truncateBody(body))
	}

	if err := c.cache.Set(fullURL, string(body)); err != nil {
		log.Warn().Err(err).Str("url", fullURL).Msg("market cache write failed")
	}
	return json.RawMessage(body), nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
