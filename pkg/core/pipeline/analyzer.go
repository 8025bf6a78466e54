// Package pipeline orchestrates a full property analysis: URL parsing, market
// data lookups, loan modeling, the projection/tax/risk engines, comparable
// analysis, and strategy scoring.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/analysis"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/listing"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/loan"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/market"
)

// MarketDataProvider is the slice of the market client the analyzer needs.
// Tests substitute a mock.
type MarketDataProvider interface {
	SearchProperties(ctx context.Context, address string, limit int) ([]market.PropertyRecord, error)
	ValueEstimate(ctx context.Context, address string, query market.EstimateQuery) (*market.ValueEstimate, error)
	RentEstimate(ctx context.Context, address string, query market.EstimateQuery) (*market.RentEstimate, error)
	MarketStatistics(ctx context.Context, zipCode string) (*market.MarketStats, error)
	SaleListings(ctx context.Context, zipCode string, filter market.ListingFilter) ([]market.Listing, error)
	RentalListings(ctx context.Context, zipCode string, filter market.ListingFilter) ([]market.Listing, error)
}

// Request carries the analysis inputs. Pointer fields are user overrides;
// nil means "look it up" (price, rent) or "use the loan type default" (down
// payment). Zero-valued Assumptions fields fall back to defaults.
type Request struct {
	PropertyURL       string               `json:"property_url"`
	SelectedStrategy  string               `json:"strategy_type,omitempty"`
	LoanType          loan.Type            `json:"loan_type,omitempty"`
	DownPaymentPct    *float64             `json:"down_payment_pct,omitempty"`
	InterestRate      float64              `json:"interest_rate,omitempty"`
	LoanTermYears     int                  `json:"loan_term_years,omitempty"`
	PurchasePrice     *float64             `json:"purchase_price,omitempty"`
	EstimatedRent     *float64             `json:"estimated_rent,omitempty"`
	PropertyTaxAnnual *float64             `json:"property_tax_annual,omitempty"`
	InsuranceAnnual   *float64             `json:"insurance_annual,omitempty"`
	HOAMonthly        float64              `json:"hoa_monthly,omitempty"`
	Assumptions       analysis.Assumptions `json:"assumptions"`
}

// PropertyData is what the market lookups resolved about the subject.
type PropertyData struct {
	Address        string  `json:"address"`
	ZipCode        string  `json:"zip_code,omitempty"`
	PropertyType   string  `json:"property_type,omitempty"`
	Bedrooms       int     `json:"bedrooms,omitempty"`
	Bathrooms      float64 `json:"bathrooms,omitempty"`
	SquareFootage  int     `json:"square_footage,omitempty"`
	EstimatedValue float64 `json:"estimated_value,omitempty"`
	EstimatedRent  float64 `json:"estimated_rent,omitempty"`
}

// FullAnalysisResult is the complete analysis payload.
type FullAnalysisResult struct {
	AnalysisID       string                      `json:"analysis_id"`
	GeneratedAt      time.Time                   `json:"generated_at"`
	PropertyInfo     *listing.PropertyInfo       `json:"property_info"`
	PropertyData     PropertyData                `json:"property_data"`
	MarketStatistics *market.MarketStats         `json:"market_statistics,omitempty"`
	LoanDetails      loan.Terms                  `json:"loan_details"`
	CoreMetrics      analysis.CoreMetrics        `json:"core_metrics"`
	Projection       analysis.ProjectionResult   `json:"projection"`
	TaxAnalysis      analysis.TaxAnalysis        `json:"tax_analysis"`
	RiskAnalysis     analysis.RiskAnalysis       `json:"risk_analysis"`
	Comparables      analysis.ComparableAnalysis `json:"comparables"`
	StrategyScores   []analysis.StrategyScore    `json:"strategy_scores"`
	BestStrategy     *analysis.StrategyScore     `json:"best_strategy,omitempty"`
	ExecutiveSummary []string                    `json:"executive_summary"`
	SelectedStrategy string                      `json:"selected_strategy"`
}

// addressFetcher resolves a listing page to a street address when the URL
// slug alone is not one.
type addressFetcher interface {
	FetchAddress(ctx context.Context, pageURL string) (string, error)
}

// Analyzer wires the market provider and loan calculator into one entry
// point. Safe for concurrent use; per-analysis state lives in locals.
type Analyzer struct {
	market  MarketDataProvider
	loans   *loan.Calculator
	scraper addressFetcher

	// DefaultAssumptions backs requests that carry no assumptions of their
	// own, typically loaded from the assumptions config file.
	DefaultAssumptions analysis.Assumptions
}

// NewAnalyzer builds an analyzer. A nil loan calculator gets the default
// parameter table.
func NewAnalyzer(provider MarketDataProvider, loans *loan.Calculator) *Analyzer {
	if loans == nil {
		loans = loan.NewCalculator(nil)
	}
	return &Analyzer{market: provider, loans: loans, scraper: listing.NewScraper()}
}

var zipRe = regexp.MustCompile(`\b\d{5}\b`)

// looksLikeAddress accepts anything with a street number. URL slugs without
// one are search pages, not listings.
func looksLikeAddress(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// AnalyzeProperty runs the full pipeline for one listing URL.
//
// Hard failures: unparseable URL, property data fetch errors, unresolvable
// price. Tolerated degradations: rent estimate (when rent was supplied),
// market statistics, and comps; the last is reported via
// Comparables.Unavailable rather than swallowed.
func (a *Analyzer) AnalyzeProperty(ctx context.Context, req Request) (*FullAnalysisResult, error) {
	req = withDefaults(req)
	if req.Assumptions == (analysis.Assumptions{}) {
		req.Assumptions = a.DefaultAssumptions
	}

	info, err := listing.ParseURL(req.PropertyURL)
	if err != nil {
		return nil, fmt.Errorf("parse property url: %w", err)
	}
	if !looksLikeAddress(info.Address) {
		// Search-style slugs ("for sale Austin") carry no street address, so
		// pull it off the page itself. If that fails too, press on with the
		// slug; user-supplied overrides may still carry the analysis.
		if addr, serr := a.scraper.FetchAddress(ctx, req.PropertyURL); serr == nil {
			info.Address = addr
		} else {
			log.Warn().Err(serr).Str("url", req.PropertyURL).Msg("address scrape failed")
		}
	}
	log.Info().Str("address", info.Address).Str("source", info.Source).Msg("analysis started")

	data, err := a.resolveProperty(ctx, info.Address, req)
	if err != nil {
		return nil, err
	}

	price := data.EstimatedValue
	if req.PurchasePrice != nil {
		price = *req.PurchasePrice
	}
	if price == 0 {
		return nil, fmt.Errorf("could not determine a price for %q: provide purchase_price", info.Address)
	}

	rent := data.EstimatedRent
	if req.EstimatedRent != nil {
		rent = *req.EstimatedRent
	}

	var stats *market.MarketStats
	if data.ZipCode != "" {
		if stats, err = a.market.MarketStatistics(ctx, data.ZipCode); err != nil {
			log.Warn().Err(err).Str("zip", data.ZipCode).Msg("market statistics unavailable")
			stats = nil
		}
	}

	terms := a.loans.Details(loan.DetailsInput{
		PurchasePrice:     price,
		LoanType:          req.LoanType,
		DownPaymentPct:    req.DownPaymentPct,
		InterestRate:      req.InterestRate,
		LoanTermYears:     req.LoanTermYears,
		PropertyTaxAnnual: req.PropertyTaxAnnual,
		InsuranceAnnual:   req.InsuranceAnnual,
		HOAMonthly:        req.HOAMonthly,
	})
	amortization := a.loans.AmortizationSchedule(terms.LoanAmount, req.InterestRate, req.LoanTermYears)

	calc := analysis.NewCalculator(price, rent, terms, amortization, req.Assumptions)

	core := calc.CoreMetrics()
	projection := calc.Projection()
	tax := calc.TaxAnalysis(core)
	risk := calc.RiskAnalysis(core)

	comps := a.fetchComparables(ctx, calc, data)

	scores := calc.ScoreAllStrategies(core, projection, risk)
	best := analysis.BestStrategy(scores)
	summary := calc.ExecutiveSummary(core, projection, tax, risk, best)

	result := &FullAnalysisResult{
		AnalysisID:       uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		PropertyInfo:     info,
		PropertyData:     data,
		MarketStatistics: stats,
		LoanDetails:      terms,
		CoreMetrics:      core,
		Projection:       projection,
		TaxAnalysis:      tax,
		RiskAnalysis:     risk,
		Comparables:      comps,
		StrategyScores:   scores,
		BestStrategy:     best,
		ExecutiveSummary: summary,
		SelectedStrategy: req.SelectedStrategy,
	}

	log.Info().
		Str("analysis_id", result.AnalysisID).
		Float64("price", price).
		Float64("risk_score", risk.OverallRiskScore).
		Msg("analysis complete")
	return result, nil
}

// resolveProperty fills PropertyData from the record search, falling back to
// the AVM estimates when the address has no record.
func (a *Analyzer) resolveProperty(ctx context.Context, address string, req Request) (PropertyData, error) {
	data := PropertyData{Address: address}

	records, err := a.market.SearchProperties(ctx, address, 1)
	if err != nil {
		return data, fmt.Errorf("fetch property data: %w", err)
	}

	if len(records) == 0 {
		if est, err := a.market.ValueEstimate(ctx, address, market.EstimateQuery{}); err == nil {
			data.EstimatedValue = est.Price
		} else if req.PurchasePrice == nil {
			return data, fmt.Errorf("fetch value estimate: %w", err)
		}
		if est, err := a.market.RentEstimate(ctx, address, market.EstimateQuery{}); err == nil {
			data.EstimatedRent = est.Rent
		} else if req.EstimatedRent == nil {
			log.Warn().Err(err).Msg("rent estimate unavailable")
		}
		data.ZipCode = zipRe.FindString(address)
		return data, nil
	}

	rec := records[0]
	if rec.FormattedAddress != "" {
		data.Address = rec.FormattedAddress
	}
	data.ZipCode = rec.ZipCode
	data.PropertyType = rec.PropertyType
	data.Bedrooms = rec.Bedrooms
	data.Bathrooms = rec.Bathrooms
	data.SquareFootage = rec.SquareFootage

	switch {
	case rec.Price != 0:
		data.EstimatedValue = rec.Price
	case rec.LastSalePrice != 0:
		data.EstimatedValue = rec.LastSalePrice
	}
	data.EstimatedRent = rec.RentEstimate

	// A record without a rent figure still has enough profile for the AVM.
	if data.EstimatedRent == 0 && req.EstimatedRent == nil {
		query := market.EstimateQuery{PropertyType: rec.PropertyType}
		if rec.Bedrooms > 0 {
			query.Bedrooms = &rec.Bedrooms
		}
		if rec.Bathrooms > 0 {
			query.Bathrooms = &rec.Bathrooms
		}
		if rec.SquareFootage > 0 {
			query.SquareFootage = &rec.SquareFootage
		}
		if est, err := a.market.RentEstimate(ctx, address, query); err == nil {
			data.EstimatedRent = est.Rent
		} else {
			log.Warn().Err(err).Msg("rent estimate unavailable")
		}
	}
	return data, nil
}

// fetchComparables pulls sale and rental comps concurrently. Failures flag
// the result as unavailable instead of pretending the market is empty.
func (a *Analyzer) fetchComparables(ctx context.Context, calc *analysis.Calculator, data PropertyData) analysis.ComparableAnalysis {
	if data.ZipCode == "" {
		return analysis.ComparableAnalysis{Unavailable: true}
	}

	filter := market.ListingFilter{Limit: 10, PropertyType: data.PropertyType}
	if data.Bedrooms > 0 {
		beds := data.Bedrooms
		filter.Bedrooms = &beds
	}
	if data.Bathrooms > 0 {
		baths := data.Bathrooms
		filter.Bathrooms = &baths
	}
	if data.SquareFootage > 0 {
		lo := int(float64(data.SquareFootage) * 0.7)
		hi := int(float64(data.SquareFootage) * 1.3)
		filter.SqftMin = &lo
		filter.SqftMax = &hi
	}

	var (
		wg                 sync.WaitGroup
		sales, rentals     []market.Listing
		saleErr, rentalErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sales, saleErr = a.market.SaleListings(ctx, data.ZipCode, filter)
	}()
	go func() {
		defer wg.Done()
		rentals, rentalErr = a.market.RentalListings(ctx, data.ZipCode, filter)
	}()
	wg.Wait()

	// Each side degrades independently: a failed sale fetch still keeps the
	// rental comps, and vice versa. Any failure flags the result.
	degraded := saleErr != nil || rentalErr != nil
	if degraded {
		log.Warn().AnErr("sale_err", saleErr).AnErr("rental_err", rentalErr).
			Str("zip", data.ZipCode).Msg("comparable fetch degraded")
	}
	if saleErr != nil {
		sales = nil
	}
	if rentalErr != nil {
		rentals = nil
	}

	result := calc.BuildComparableAnalysis(toComps(sales), toComps(rentals), data.SquareFootage)
	result.Unavailable = degraded
	return result
}

// toComps keeps only listings with both a price and a square footage.
func toComps(listings []market.Listing) []analysis.CompProperty {
	var comps []analysis.CompProperty
	for _, l := range listings {
		price := l.BestPrice()
		sqft := l.BestSqft()
		if price == 0 || sqft == 0 {
			continue
		}
		comp := analysis.CompProperty{
			Address:      l.BestAddress(),
			Price:        price,
			Sqft:         float64(sqft),
			PricePerSqft: math.Round(price/float64(sqft)*100) / 100,
		}
		if l.Bedrooms > 0 {
			beds := l.Bedrooms
			comp.Bedrooms = &beds
		}
		if l.Bathrooms > 0 {
			baths := l.Bathrooms
			comp.Bathrooms = &baths
		}
		comps = append(comps, comp)
	}
	return comps
}

func withDefaults(req Request) Request {
	if req.SelectedStrategy == "" {
		req.SelectedStrategy = analysis.StrategyRental
	}
	if req.LoanType == "" {
		req.LoanType = loan.Conventional
	}
	if req.InterestRate == 0 {
		req.InterestRate = 0.065
	}
	if req.LoanTermYears == 0 {
		req.LoanTermYears = 30
	}
	return req
}
