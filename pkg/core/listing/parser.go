// Package listing extracts property information from Zillow and Realtor.com
// listing URLs, with an HTML scrape fallback when the URL alone is not enough.
package listing

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// PropertyInfo is what a listing URL tells us about a property before any
// market data lookup.
type PropertyInfo struct {
	Address   string `json:"address"`
	ZPID      string `json:"zpid,omitempty"`       // Zillow property ID
	ListingID string `json:"listing_id,omitempty"` // Realtor.com listing ID
	Source    string `json:"source"`
	URL       string `json:"url"`
}

var (
	zillowPathRe  = regexp.MustCompile(`/(?:homedetails|homes)/([^/]+)`)
	zpidRe        = regexp.MustCompile(`/(\d+)_zpid`)
	realtorPathRe = regexp.MustCompile(`/realestateandhomes-detail/([^/]+)`)
	realtorIDRe   = regexp.MustCompile(`_M(\d+)_(\d+)$`)
)

// ParseURL dispatches on the listing host. Unknown hosts are an error with a
// usable hint, since the caller surfaces this to the end user.
func ParseURL(rawURL string) (*PropertyInfo, error) {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "zillow.com"):
		return parseZillowURL(rawURL)
	case strings.Contains(lower, "realtor.com"):
		return parseRealtorURL(rawURL)
	}
	return nil, fmt.Errorf("unsupported listing URL %q: only Zillow and Realtor.com are supported", rawURL)
}

// parseZillowURL handles the two common Zillow shapes:
//
//	https://www.zillow.com/homedetails/123-Main-St-City-ST-12345/12345678_zpid/
//	https://www.zillow.com/homes/123-Main-St-City-ST-12345_rb/
func parseZillowURL(rawURL string) (*PropertyInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse zillow url: %w", err)
	}

	m := zillowPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, fmt.Errorf("no address segment in zillow url path %q", u.Path)
	}

	address := strings.ReplaceAll(m[1], "-", " ")
	address = strings.ReplaceAll(address, "_rb", "")
	address = strings.ReplaceAll(address, "_zpid", "")

	info := &PropertyInfo{
		Address: address,
		Source:  "zillow",
		URL:     rawURL,
	}
	if zm := zpidRe.FindStringSubmatch(u.Path); zm != nil {
		info.ZPID = zm[1]
	}
	return info, nil
}

// parseRealtorURL handles:
//
//	https://www.realtor.com/realestateandhomes-detail/123-Main-St_City_ST_12345_M12345_12345
func parseRealtorURL(rawURL string) (*PropertyInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse realtor url: %w", err)
	}

	m := realtorPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, fmt.Errorf("no address segment in realtor url path %q", u.Path)
	}
	slug := m[1]

	addressPart := realtorIDRe.ReplaceAllString(slug, "")
	address := strings.ReplaceAll(addressPart, "_", " ")
	address = strings.ReplaceAll(address, "-", " ")

	info := &PropertyInfo{
		Address: address,
		Source:  "realtor",
		URL:     rawURL,
	}
	if im := realtorIDRe.FindStringSubmatch(slug); im != nil {
		info.ListingID = fmt.Sprintf("M%s_%s", im[1], im[2])
	}
	return info, nil
}
