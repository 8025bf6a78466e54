package analysis

import (
	"math"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/loan"
)

// Assumptions are the market and modeling inputs for one analysis. Rates are
// decimals. Zero-valued fields are replaced with defaults at construction.
type Assumptions struct {
	VacancyRate       float64 `json:"vacancy_rate" yaml:"vacancy_rate"`
	MaintenancePct    float64 `json:"maintenance_pct" yaml:"maintenance_pct"`
	ManagementFeePct  float64 `json:"management_fee_pct" yaml:"management_fee_pct"`
	CapexReservePct   float64 `json:"capex_reserve_pct" yaml:"capex_reserve_pct"`
	AppreciationRate  float64 `json:"appreciation_rate" yaml:"appreciation_rate"`
	RentGrowthRate    float64 `json:"rent_growth_rate" yaml:"rent_growth_rate"`
	ExpenseGrowthRate float64 `json:"expense_growth_rate" yaml:"expense_growth_rate"`
	MarginalTaxRate   float64 `json:"marginal_tax_rate" yaml:"marginal_tax_rate"`
	DiscountRate      float64 `json:"discount_rate" yaml:"discount_rate"`
	HoldYears         int     `json:"hold_years" yaml:"hold_years"`
}

// DefaultAssumptions returns the baseline modeling assumptions.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		VacancyRate:       0.05,
		MaintenancePct:    0.01,
		ManagementFeePct:  0.10,
		CapexReservePct:   0.03,
		AppreciationRate:  0.04,
		RentGrowthRate:    0.03,
		ExpenseGrowthRate: 0.02,
		MarginalTaxRate:   0.22,
		DiscountRate:      0.08,
		HoldYears:         10,
	}
}

const (
	projectionYears   = 30
	landValuePct      = 0.20 // land share of price; the rest is depreciable
	depreciationYears = 27.5
	sellingCostPct    = 0.06
	recaptureTaxRate  = 0.25
)

// Calculator performs all deal-level computations for one property. It is
// built fresh per analysis from immutable inputs and holds no shared state.
type Calculator struct {
	PurchasePrice float64
	EstimatedRent float64 // monthly
	Terms         loan.Terms
	Amortization  []loan.AmortizationEntry
	Assume        Assumptions

	// Derived at construction.
	annualDebtService  float64
	totalCashInvested  float64
	propertyTaxAnnual  float64
	insuranceAnnual    float64
	pmiAnnual          float64
	hoaAnnual          float64
	maintenanceAnnual  float64
	capexReserveAnnual float64
	depreciableBasis   float64
	annualDepreciation float64
}

// NewCalculator derives the per-year expense components and depreciation
// schedule from the inputs. Zero assumptions fall back to defaults field by
// field so a partially specified Assumptions still works.
func NewCalculator(purchasePrice, estimatedRent float64, terms loan.Terms, amortization []loan.AmortizationEntry, assume Assumptions) *Calculator {
	def := DefaultAssumptions()
	if assume.VacancyRate == 0 {
		assume.VacancyRate = def.VacancyRate
	}
	if assume.MaintenancePct == 0 {
		assume.MaintenancePct = def.MaintenancePct
	}
	if assume.ManagementFeePct == 0 {
		assume.ManagementFeePct = def.ManagementFeePct
	}
	if assume.CapexReservePct == 0 {
		assume.CapexReservePct = def.CapexReservePct
	}
	if assume.AppreciationRate == 0 {
		assume.AppreciationRate = def.AppreciationRate
	}
	if assume.RentGrowthRate == 0 {
		assume.RentGrowthRate = def.RentGrowthRate
	}
	if assume.ExpenseGrowthRate == 0 {
		assume.ExpenseGrowthRate = def.ExpenseGrowthRate
	}
	if assume.MarginalTaxRate == 0 {
		assume.MarginalTaxRate = def.MarginalTaxRate
	}
	if assume.DiscountRate == 0 {
		assume.DiscountRate = def.DiscountRate
	}
	if assume.HoldYears < 1 || assume.HoldYears > projectionYears {
		assume.HoldYears = def.HoldYears
	}

	c := &Calculator{
		PurchasePrice: purchasePrice,
		EstimatedRent: estimatedRent,
		Terms:         terms,
		Amortization:  amortization,
		Assume:        assume,
	}

	c.annualDebtService = terms.MonthlyPrincipalInterest * 12
	c.totalCashInvested = terms.DownPayment + terms.UpfrontCosts
	c.propertyTaxAnnual = terms.PropertyTaxAnnual
	c.insuranceAnnual = terms.InsuranceAnnual
	c.pmiAnnual = terms.PMIMonthly * 12
	c.hoaAnnual = terms.HOAMonthly * 12
	c.maintenanceAnnual = purchasePrice * assume.MaintenancePct
	c.capexReserveAnnual = purchasePrice * assume.CapexReservePct

	c.depreciableBasis = purchasePrice * (1 - landValuePct)
	c.annualDepreciation = c.depreciableBasis / depreciationYears

	return c
}

// CoreMetrics computes the year-1 snapshot.
func (c *Calculator) CoreMetrics() CoreMetrics {
	grossIncome := c.EstimatedRent * 12
	vacancyLoss := grossIncome * c.Assume.VacancyRate
	egi := grossIncome - vacancyLoss

	managementFee := grossIncome * c.Assume.ManagementFeePct
	opex := c.propertyTaxAnnual + c.insuranceAnnual + c.pmiAnnual +
		c.hoaAnnual + c.maintenanceAnnual + c.capexReserveAnnual + managementFee

	noi := egi - opex
	cashFlowBT := noi - c.annualDebtService

	coc := 0.0
	if c.totalCashInvested > 0 {
		coc = cashFlowBT / c.totalCashInvested * 100
	}
	capRate, grossYield, rtv := 0.0, 0.0, 0.0
	if c.PurchasePrice > 0 {
		capRate = noi / c.PurchasePrice * 100
		grossYield = grossIncome / c.PurchasePrice * 100
		rtv = c.EstimatedRent / c.PurchasePrice * 100
	}
	dscr := math.Inf(1)
	if c.annualDebtService > 0 {
		dscr = noi / c.annualDebtService
	}
	opexRatio := 0.0
	if egi > 0 {
		opexRatio = opex / egi * 100
	}

	breakEvenOcc := 100.0
	if grossIncome > 0 {
		breakEvenOcc = (opex + c.annualDebtService) / grossIncome * 100
	}

	return CoreMetrics{
		GrossRentalIncome:    round2(grossIncome),
		VacancyLoss:          round2(vacancyLoss),
		EffectiveGrossIncome: round2(egi),
		OperatingExpenses:    round2(opex),
		NOI:                  round2(noi),
		AnnualDebtService:    round2(c.annualDebtService),
		CashFlowBeforeTax:    round2(cashFlowBT),
		TotalCashInvested:    round2(c.totalCashInvested),
		CashOnCashReturn:     round2(coc),
		CapRate:              round2(capRate),
		GrossRentalYield:     round2(grossYield),
		RentToValue:          round3(rtv),
		DSCR:                 round2(dscr),
		OpexRatio:            round2(opexRatio),
		BreakEvenOccupancy:   round2(math.Min(breakEvenOcc, 100)),
		CapexReserveAnnual:   round2(c.capexReserveAnnual),
	}
}

// amortizationAt returns interest paid and remaining balance for a projection
// year, zero once the loan term is exceeded.
func (c *Calculator) amortizationAt(year int) (interest, balance float64) {
	if year >= 1 && year <= len(c.Amortization) {
		entry := c.Amortization[year-1]
		return entry.InterestPaid, entry.RemainingBalance
	}
	return 0, 0
}

func round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
