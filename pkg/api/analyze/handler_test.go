package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/market"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/pipeline"
)

// fixedProvider serves one canned property record and empty comps.
type fixedProvider struct{}

func (fixedProvider) SearchProperties(context.Context, string, int) ([]market.PropertyRecord, error) {
	return []market.PropertyRecord{{
		FormattedAddress: "123 Main St, Austin, TX 78701",
		ZipCode:          "78701",
		SquareFootage:    1500,
		Price:            200000,
		RentEstimate:     1500,
	}}, nil
}
func (fixedProvider) ValueEstimate(context.Context, string, market.EstimateQuery) (*market.ValueEstimate, error) {
	return &market.ValueEstimate{}, nil
}
func (fixedProvider) RentEstimate(context.Context, string, market.EstimateQuery) (*market.RentEstimate, error) {
	return &market.RentEstimate{}, nil
}
func (fixedProvider) MarketStatistics(context.Context, string) (*market.MarketStats, error) {
	return &market.MarketStats{ZipCode: "78701"}, nil
}
func (fixedProvider) SaleListings(context.Context, string, market.ListingFilter) ([]market.Listing, error) {
	return nil, nil
}
func (fixedProvider) RentalListings(context.Context, string, market.ListingFilter) ([]market.Listing, error) {
	return nil, nil
}

func newTestHandler() *Handler {
	return NewHandler(pipeline.NewAnalyzer(fixedProvider{}, nil))
}

const requestBody = `{"property_url":"https://www.zillow.com/homedetails/123-Main-St-Austin-TX-78701/29384756_zpid/"}`

func TestHandleAnalyze(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(requestBody))
	rec := httptest.NewRecorder()

	newTestHandler().HandleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result pipeline.FullAnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Response not decodable: %v", err)
	}
	if result.AnalysisID == "" || len(result.StrategyScores) != 5 {
		t.Errorf("Incomplete analysis payload: %+v", result)
	}
}

func TestHandleAnalyzeMissingURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	newTestHandler().HandleAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleAnalyzeWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	newTestHandler().HandleAnalyze(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestHandleAnalyzeOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	newTestHandler().HandleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Preflight should return 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS header")
	}
}

func TestHandleAnalyzeUnsupportedHost(t *testing.T) {
	body := `{"property_url":"https://www.redfin.com/TX/Austin/123-Main-St/home/1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestHandler().HandleAnalyze(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}

func TestHandleReport(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(requestBody))
	rec := httptest.NewRecorder()

	newTestHandler().HandleReport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Investment Analysis") {
		t.Error("Report body missing title")
	}
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	newTestHandler().HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected health payload %s", rec.Body.String())
	}
}
