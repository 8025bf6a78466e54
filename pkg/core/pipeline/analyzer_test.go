package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/market"
)

// mockProvider implements MarketDataProvider with overridable behavior per
// test. Unset funcs return empty results.
type mockProvider struct {
	searchFn  func(address string) ([]market.PropertyRecord, error)
	valueFn   func(address string) (*market.ValueEstimate, error)
	rentFn    func(address string) (*market.RentEstimate, error)
	statsFn   func(zip string) (*market.MarketStats, error)
	salesFn   func(zip string, f market.ListingFilter) ([]market.Listing, error)
	rentalsFn func(zip string, f market.ListingFilter) ([]market.Listing, error)
}

func (m *mockProvider) SearchProperties(_ context.Context, address string, _ int) ([]market.PropertyRecord, error) {
	if m.searchFn != nil {
		return m.searchFn(address)
	}
	return nil, nil
}

func (m *mockProvider) ValueEstimate(_ context.Context, address string, _ market.EstimateQuery) (*market.ValueEstimate, error) {
	if m.valueFn != nil {
		return m.valueFn(address)
	}
	return &market.ValueEstimate{}, nil
}

func (m *mockProvider) RentEstimate(_ context.Context, address string, _ market.EstimateQuery) (*market.RentEstimate, error) {
	if m.rentFn != nil {
		return m.rentFn(address)
	}
	return &market.RentEstimate{}, nil
}

func (m *mockProvider) MarketStatistics(_ context.Context, zip string) (*market.MarketStats, error) {
	if m.statsFn != nil {
		return m.statsFn(zip)
	}
	return &market.MarketStats{ZipCode: zip}, nil
}

func (m *mockProvider) SaleListings(_ context.Context, zip string, f market.ListingFilter) ([]market.Listing, error) {
	if m.salesFn != nil {
		return m.salesFn(zip, f)
	}
	return nil, nil
}

func (m *mockProvider) RentalListings(_ context.Context, zip string, f market.ListingFilter) ([]market.Listing, error) {
	if m.rentalsFn != nil {
		return m.rentalsFn(zip, f)
	}
	return nil, nil
}

// stubFetcher stands in for the page scraper.
type stubFetcher struct {
	addr string
	err  error
}

func (s stubFetcher) FetchAddress(context.Context, string) (string, error) {
	return s.addr, s.err
}

const testURL = "https://www.zillow.com/homedetails/123-Main-St-Austin-TX-78701/29384756_zpid/"

// searchURL has no street address in its slug, only a city.
const searchURL = "https://www.zillow.com/homes/Austin-TX_rb/"

func recordProvider() *mockProvider {
	return &mockProvider{
		searchFn: func(string) ([]market.PropertyRecord, error) {
			return []market.PropertyRecord{{
				FormattedAddress: "123 Main St, Austin, TX 78701",
				ZipCode:          "78701",
				PropertyType:     "Single Family",
				Bedrooms:         3,
				Bathrooms:        2,
				SquareFootage:    1500,
				Price:            200000,
				RentEstimate:     1500,
			}}, nil
		},
		salesFn: func(_ string, _ market.ListingFilter) ([]market.Listing, error) {
			return []market.Listing{
				{FormattedAddress: "12 Oak St", Price: 210000, SquareFootage: 1400},
				{FormattedAddress: "48 Elm St", Price: 195000, SquareFootage: 1500},
			}, nil
		},
		rentalsFn: func(_ string, _ market.ListingFilter) ([]market.Listing, error) {
			return []market.Listing{
				{FormattedAddress: "3 Pine Ct", Rent: 1450, SquareFootage: 1318},
			}, nil
		},
	}
}

func TestAnalyzePropertyFullFlow(t *testing.T) {
	analyzer := NewAnalyzer(recordProvider(), nil)

	result, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.AnalysisID == "" {
		t.Error("Missing analysis ID")
	}
	if result.PropertyInfo == nil || result.PropertyInfo.Source != "zillow" {
		t.Errorf("Property info not carried: %+v", result.PropertyInfo)
	}
	if result.PropertyData.ZipCode != "78701" {
		t.Errorf("ZIP not resolved: %+v", result.PropertyData)
	}
	if result.LoanDetails.PurchasePrice != 200000 {
		t.Errorf("Price not resolved from record, got %f", result.LoanDetails.PurchasePrice)
	}
	if result.CoreMetrics.GrossRentalIncome != 18000 {
		t.Errorf("Rent not resolved from record: gross %f", result.CoreMetrics.GrossRentalIncome)
	}
	if len(result.Projection.Years) != 30 {
		t.Errorf("Expected 30 projection years, got %d", len(result.Projection.Years))
	}
	if len(result.StrategyScores) != 5 {
		t.Errorf("Expected 5 strategy scores, got %d", len(result.StrategyScores))
	}
	if result.BestStrategy == nil {
		t.Error("Missing best strategy")
	}
	if len(result.RiskAnalysis.Scenarios) != 6 {
		t.Errorf("Expected 6 stress scenarios, got %d", len(result.RiskAnalysis.Scenarios))
	}
	if result.Comparables.Unavailable {
		t.Error("Comps should be available")
	}
	if len(result.Comparables.SaleComps) != 2 {
		t.Errorf("Expected 2 sale comps, got %d", len(result.Comparables.SaleComps))
	}
	if result.SelectedStrategy != "rental" {
		t.Errorf("Default strategy should be rental, got %q", result.SelectedStrategy)
	}
	if len(result.ExecutiveSummary) == 0 {
		t.Error("Missing executive summary")
	}
}

func TestAnalyzePropertyBadURL(t *testing.T) {
	analyzer := NewAnalyzer(&mockProvider{}, nil)
	if _, err := analyzer.AnalyzeProperty(context.Background(), Request{
		PropertyURL: "https://example.com/house",
	}); err == nil {
		t.Error("Expected an error for an unsupported URL")
	}
}

func TestAnalyzePropertySearchFailure(t *testing.T) {
	analyzer := NewAnalyzer(&mockProvider{
		searchFn: func(string) ([]market.PropertyRecord, error) {
			return nil, errors.New("upstream down")
		},
	}, nil)
	if _, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL}); err == nil {
		t.Error("Expected an error when the property search fails")
	}
}

func TestAnalyzePropertyNoPrice(t *testing.T) {
	// No record, AVM returns nothing: unresolvable price is a hard error.
	analyzer := NewAnalyzer(&mockProvider{}, nil)
	if _, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL}); err == nil {
		t.Error("Expected an error when no price can be determined")
	}
}

func TestAnalyzePropertyManualOverrides(t *testing.T) {
	// No market record at all, but price and rent supplied: analysis proceeds.
	price, rent := 250000.0, 1800.0
	analyzer := NewAnalyzer(&mockProvider{
		valueFn: func(string) (*market.ValueEstimate, error) {
			return nil, errors.New("no avm coverage")
		},
		rentFn: func(string) (*market.RentEstimate, error) {
			return nil, errors.New("no avm coverage")
		},
	}, nil)

	result, err := analyzer.AnalyzeProperty(context.Background(), Request{
		PropertyURL:   testURL,
		PurchasePrice: &price,
		EstimatedRent: &rent,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.LoanDetails.PurchasePrice != 250000 {
		t.Errorf("Manual price not honored: %f", result.LoanDetails.PurchasePrice)
	}
	// ZIP falls back to the address slug.
	if result.PropertyData.ZipCode != "78701" {
		t.Errorf("ZIP not extracted from address: %q", result.PropertyData.ZipCode)
	}
}

func TestAnalyzePropertyCompsDegrade(t *testing.T) {
	provider := recordProvider()
	provider.salesFn = func(string, market.ListingFilter) ([]market.Listing, error) {
		return nil, errors.New("listings endpoint down")
	}
	analyzer := NewAnalyzer(provider, nil)

	result, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL})
	if err != nil {
		t.Fatalf("Comp failure must not fail the analysis: %v", err)
	}
	if !result.Comparables.Unavailable {
		t.Error("Degraded comps should be flagged unavailable")
	}
	if len(result.Comparables.SaleComps) != 0 {
		t.Error("Failed sale fetch should carry no sale comps")
	}
	// The rental side degrades independently of the sale side.
	if len(result.Comparables.RentalComps) != 1 {
		t.Errorf("Rental comps should survive a sale fetch failure, got %d", len(result.Comparables.RentalComps))
	}
	if result.Comparables.MedianRentSqft == nil {
		t.Error("Surviving rental comps should still produce a median")
	}
	if result.Comparables.MedianSalePriceSqft != nil {
		t.Error("Failed sale fetch should leave the sale median unset")
	}
}

func TestAnalyzePropertyScrapesAddressForSearchSlug(t *testing.T) {
	provider := recordProvider()
	var searched string
	base := provider.searchFn
	provider.searchFn = func(address string) ([]market.PropertyRecord, error) {
		searched = address
		return base(address)
	}
	analyzer := NewAnalyzer(provider, nil)
	analyzer.scraper = stubFetcher{addr: "123 Main St, Austin, TX 78701"}

	result, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: searchURL})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if searched != "123 Main St, Austin, TX 78701" {
		t.Errorf("Search should use the scraped address, got %q", searched)
	}
	if result.PropertyInfo.Address != "123 Main St, Austin, TX 78701" {
		t.Errorf("Property info should carry the scraped address, got %q", result.PropertyInfo.Address)
	}
}

func TestAnalyzePropertyScrapeFailureFallsBackToSlug(t *testing.T) {
	analyzer := NewAnalyzer(&mockProvider{}, nil)
	analyzer.scraper = stubFetcher{err: errors.New("blocked")}

	price, rent := 200000.0, 1500.0
	result, err := analyzer.AnalyzeProperty(context.Background(), Request{
		PropertyURL:   searchURL,
		PurchasePrice: &price,
		EstimatedRent: &rent,
	})
	if err != nil {
		t.Fatalf("Scrape failure with overrides should not fail the analysis: %v", err)
	}
	if result.PropertyData.Address != "Austin TX" {
		t.Errorf("Expected the slug address fallback, got %q", result.PropertyData.Address)
	}
}

func TestAnalyzePropertyCompsBothSidesFail(t *testing.T) {
	provider := recordProvider()
	provider.salesFn = func(string, market.ListingFilter) ([]market.Listing, error) {
		return nil, errors.New("listings endpoint down")
	}
	provider.rentalsFn = func(string, market.ListingFilter) ([]market.Listing, error) {
		return nil, errors.New("listings endpoint down")
	}
	analyzer := NewAnalyzer(provider, nil)

	result, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL})
	if err != nil {
		t.Fatalf("Comp failure must not fail the analysis: %v", err)
	}
	if !result.Comparables.Unavailable {
		t.Error("Degraded comps should be flagged unavailable")
	}
	if len(result.Comparables.SaleComps) != 0 || len(result.Comparables.RentalComps) != 0 {
		t.Error("Fully degraded comps should carry no data")
	}
}

func TestAnalyzePropertyStatsDegrade(t *testing.T) {
	provider := recordProvider()
	provider.statsFn = func(string) (*market.MarketStats, error) {
		return nil, errors.New("markets endpoint down")
	}
	analyzer := NewAnalyzer(provider, nil)

	result, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL})
	if err != nil {
		t.Fatalf("Stats failure must not fail the analysis: %v", err)
	}
	if result.MarketStatistics != nil {
		t.Error("Degraded stats should be nil, not partial")
	}
}

func TestComparableFilterFromRecord(t *testing.T) {
	var captured market.ListingFilter
	provider := recordProvider()
	provider.salesFn = func(_ string, f market.ListingFilter) ([]market.Listing, error) {
		captured = f
		return nil, nil
	}
	analyzer := NewAnalyzer(provider, nil)

	if _, err := analyzer.AnalyzeProperty(context.Background(), Request{PropertyURL: testURL}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if captured.SqftMin == nil || *captured.SqftMin != 1050 {
		t.Errorf("Sqft band low should be 70%% of 1500, got %v", captured.SqftMin)
	}
	if captured.SqftMax == nil || *captured.SqftMax != 1950 {
		t.Errorf("Sqft band high should be 130%% of 1500, got %v", captured.SqftMax)
	}
	if captured.Bedrooms == nil || *captured.Bedrooms != 3 {
		t.Errorf("Bedrooms filter not set: %v", captured.Bedrooms)
	}
}
