package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Scraper fetches a listing page and pulls the street address out of the
// embedded structured data. It is the fallback when URL parsing alone does
// not yield enough, not a general-purpose crawler.
type Scraper struct {
	client *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAddress downloads the page and extracts a street address from, in
// order: JSON-LD blobs, inline JSON, and streetAddress-tagged elements.
// Listing sites routinely ship malformed embedded JSON, so blobs go through
// repair before unmarshaling.
func (s *Scraper) FetchAddress(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch listing page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse listing html: %w", err)
	}

	if addr := addressFromStructuredData(doc); addr != "" {
		return addr, nil
	}
	if addr := doc.Find(`[itemprop="streetAddress"], [property="streetAddress"]`).First().Text(); addr != "" {
		return addr, nil
	}
	return "", fmt.Errorf("no street address found in %s", pageURL)
}

// addressFromStructuredData scans script blocks for a streetAddress key.
func addressFromStructuredData(doc *goquery.Document) string {
	var found string
	doc.Find(`script[type="application/ld+json"], script[type="application/json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		repaired, err := jsonrepair.RepairJSON(sel.Text())
		if err != nil {
			return true
		}
		var blob map[string]interface{}
		if err := json.Unmarshal([]byte(repaired), &blob); err != nil {
			return true
		}
		if addr := streetAddressIn(blob); addr != "" {
			found = addr
			return false
		}
		return true
	})
	return found
}

// streetAddressIn walks nested objects for the first streetAddress value.
func streetAddressIn(blob map[string]interface{}) string {
	if v, ok := blob["streetAddress"].(string); ok && v != "" {
		return v
	}
	for _, v := range blob {
		if nested, ok := v.(map[string]interface{}); ok {
			if addr := streetAddressIn(nested); addr != "" {
				return addr
			}
		}
	}
	return ""
}
