// Package analysis implements the property investment analysis engine:
// core metrics, 30-year projections with IRR/NPV, year-1 tax analysis, risk
// stress testing, break-even inversion, comparable market analysis, and
// scoring across the five investment strategies.
package analysis

// CoreMetrics is the year-1 snapshot of the deal.
type CoreMetrics struct {
	GrossRentalIncome    float64 `json:"gross_rental_income"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"` // excludes debt service
	NOI                  float64 `json:"noi"`                // EGI - opex
	AnnualDebtService    float64 `json:"annual_debt_service"`
	CashFlowBeforeTax    float64 `json:"cash_flow_before_tax"`
	TotalCashInvested    float64 `json:"total_cash_invested"`
	CashOnCashReturn     float64 `json:"cash_on_cash_return"`
	CapRate              float64 `json:"cap_rate"`
	GrossRentalYield     float64 `json:"gross_rental_yield"`
	RentToValue          float64 `json:"rent_to_value"`
	DSCR                 float64 `json:"dscr"` // NOI / debt service; +Inf when DS is 0
	OpexRatio            float64 `json:"opex_ratio"`
	BreakEvenOccupancy   float64 `json:"break_even_occupancy"`
	CapexReserveAnnual   float64 `json:"capex_reserve_annual"`
}

// YearProjection is a single projected year. Immutable once computed.
type YearProjection struct {
	Year              int     `json:"year"`
	GrossIncome       float64 `json:"gross_income"`
	VacancyLoss       float64 `json:"vacancy_loss"`
	EffectiveIncome   float64 `json:"effective_income"`
	OperatingExpenses float64 `json:"operating_expenses"`
	NOI               float64 `json:"noi"`
	DebtService       float64 `json:"debt_service"`
	CashFlowBeforeTax float64 `json:"cash_flow_before_tax"`
	Depreciation      float64 `json:"depreciation"`
	MortgageInterest  float64 `json:"mortgage_interest"`
	TaxableIncome     float64 `json:"taxable_income"`
	TaxLiability      float64 `json:"tax_liability"`
	CashFlowAfterTax  float64 `json:"cash_flow_after_tax"`
	PropertyValue     float64 `json:"property_value"`
	LoanBalance       float64 `json:"loan_balance"`
	Equity            float64 `json:"equity"`
	ReturnOnEquity    float64 `json:"return_on_equity"`
}

// ProjectionResult is the 30-year projection with terminal sale economics.
// IRR, NPV, and the derived return fields are nil when not computable;
// "undefined" is distinct from zero.
type ProjectionResult struct {
	Years                   []YearProjection `json:"years"`
	IRR                     *float64         `json:"irr"` // percent
	NPV                     *float64         `json:"npv"`
	EquityMultiple          *float64         `json:"equity_multiple"`
	AnnualizedReturn        *float64         `json:"annualized_return"`
	TerminalSalePrice       float64          `json:"terminal_sale_price"`
	SellingCosts            float64          `json:"selling_costs"`
	DepreciationRecaptureTax float64         `json:"depreciation_recapture_tax"`
	NetSaleProceeds         float64          `json:"net_sale_proceeds"`
}

// TaxAnalysis is the year-1 depreciation/interest tax-shield breakdown.
type TaxAnalysis struct {
	AnnualDepreciation   float64 `json:"annual_depreciation"`
	DepreciableBasis     float64 `json:"depreciable_basis"`
	DepreciationYears    float64 `json:"depreciation_years"`
	MortgageInterestYear1 float64 `json:"mortgage_interest_year1"`
	NOI                  float64 `json:"noi"`
	TaxableIncome        float64 `json:"taxable_income"`
	PaperLoss            float64 `json:"paper_loss"`
	TaxSavings           float64 `json:"tax_savings"`
	CashFlowAfterTax     float64 `json:"effective_cash_flow_after_tax"`
	MarginalTaxRate      float64 `json:"marginal_tax_rate"`
}

// StressScenario is the outcome of a single downside perturbation.
type StressScenario struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	CashFlowMonthly float64 `json:"cash_flow_monthly"`
	CashFlowAnnual  float64 `json:"cash_flow_annual"`
	DSCR            float64 `json:"dscr"`
	CashOnCash      float64 `json:"cash_on_cash"`
	Passes          bool    `json:"passes"`
}

// BreakEvenMetrics are the inverse thresholds at which cash flow crosses zero.
// MaxPurchasePrice is an approximation, not an exact inverse: a price change
// moves NOI and debt service jointly, so the value is a scaled estimate capped
// at 1.5-2x the current price.
type BreakEvenMetrics struct {
	MinMonthlyRent   float64 `json:"min_monthly_rent"`
	MaxPurchasePrice float64 `json:"max_purchase_price"`
	MaxInterestRate  float64 `json:"max_interest_rate"` // percent
	MaxVacancyRate   float64 `json:"max_vacancy_rate"`  // percent
}

// RiskAnalysis bundles the stress scenarios, break-evens, and a 0-100 score
// (fraction of failing scenarios x 100; higher = riskier).
type RiskAnalysis struct {
	Scenarios        []StressScenario `json:"scenarios"`
	BreakEven        BreakEvenMetrics `json:"break_even"`
	OverallRiskScore float64          `json:"overall_risk_score"`
}

// CompProperty is a single comparable listing.
type CompProperty struct {
	Address      string   `json:"address"`
	Price        float64  `json:"price"`
	Sqft         float64  `json:"sqft"`
	PricePerSqft float64  `json:"price_per_sqft"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
}

// ComparableAnalysis compares the subject against sale and rental comps.
// Unavailable is set when any part of the comp fetch degraded; the lists may
// be partial, and consumers must treat a missing side as "no data", never as
// "at market".
type ComparableAnalysis struct {
	SaleComps          []CompProperty `json:"sale_comps"`
	RentalComps        []CompProperty `json:"rental_comps"`
	MedianSalePriceSqft *float64      `json:"median_sale_price_sqft,omitempty"`
	MedianRentSqft     *float64       `json:"median_rent_sqft,omitempty"`
	SubjectPriceSqft   *float64       `json:"subject_price_sqft,omitempty"`
	SubjectRentSqft    *float64       `json:"subject_rent_sqft,omitempty"`
	PriceVsMarket      string         `json:"price_vs_market,omitempty"` // "above", "below", "at"
	RentVsMarket       string         `json:"rent_vs_market,omitempty"`
	Unavailable        bool           `json:"unavailable,omitempty"`
}

// Strategy tags for the five scoring models.
const (
	StrategyRental               = "rental"
	StrategyFlip                 = "flip"
	StrategyBRRRR                = "brrrr"
	StrategyHouseHack            = "house_hack"
	StrategyLongTermAppreciation = "long_term_appreciation"
)

// AllStrategies lists the scored strategies in presentation order.
var AllStrategies = []string{
	StrategyRental,
	StrategyFlip,
	StrategyBRRRR,
	StrategyHouseHack,
	StrategyLongTermAppreciation,
}

// StrategyScore is the weighted composite score for one strategy.
type StrategyScore struct {
	Strategy        string             `json:"strategy"`
	Score           float64            `json:"score"` // 0-100
	Grade           string             `json:"grade"`
	Pros            []string           `json:"pros"`
	Cons            []string           `json:"cons"`
	ComponentScores map[string]float64 `json:"component_scores"`
}
