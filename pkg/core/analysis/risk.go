package analysis

import (
	"fmt"
	"math"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/loan"
)

// scenarioSpec defines one downside perturbation of the baseline.
type scenarioSpec struct {
	name        string
	description string
	vacancy     float64
	rentMult    float64
	expenseMult float64
	rateAdd     float64
}

// RiskAnalysis runs the six fixed stress scenarios and the break-even
// inversions. A scenario passes iff annual cash flow >= 0 and DSCR >= 1.0.
func (c *Calculator) RiskAnalysis(core CoreMetrics) RiskAnalysis {
	specs := []scenarioSpec{
		{
			name: "Vacancy Doubles",
			description: fmt.Sprintf("Vacancy increases from %.0f%% to %.0f%%",
				c.Assume.VacancyRate*100, c.Assume.VacancyRate*200),
			vacancy: c.Assume.VacancyRate * 2, rentMult: 1.0, expenseMult: 1.0,
		},
		{
			name: "Rate +2%",
			description: fmt.Sprintf("Interest rate rises from %.1f%% to %.1f%%",
				c.Terms.InterestRateDecimal*100, (c.Terms.InterestRateDecimal+0.02)*100),
			vacancy: c.Assume.VacancyRate, rentMult: 1.0, expenseMult: 1.0, rateAdd: 0.02,
		},
		{
			name:        "Rent -10%",
			description: "Rents decline 10%",
			vacancy:     c.Assume.VacancyRate, rentMult: 0.90, expenseMult: 1.0,
		},
		{
			name:        "Rent -20%",
			description: "Rents decline 20%",
			vacancy:     c.Assume.VacancyRate, rentMult: 0.80, expenseMult: 1.0,
		},
		{
			name:        "Expense Surge",
			description: "Operating expenses increase 50%",
			vacancy:     c.Assume.VacancyRate, rentMult: 1.0, expenseMult: 1.50,
		},
		{
			name:        "Combined Downturn",
			description: "Vacancy +50%, rent -10%, expenses +20%",
			vacancy:     c.Assume.VacancyRate * 1.5, rentMult: 0.90, expenseMult: 1.20,
		},
	}

	scenarios := make([]StressScenario, 0, len(specs))
	failCount := 0
	for _, spec := range specs {
		s := c.runScenario(spec)
		if !s.Passes {
			failCount++
		}
		scenarios = append(scenarios, s)
	}

	riskScore := 0.0
	if len(scenarios) > 0 {
		riskScore = float64(failCount) / float64(len(scenarios)) * 100
	}

	return RiskAnalysis{
		Scenarios:        scenarios,
		BreakEven:        c.breakEvens(core),
		OverallRiskScore: round1(riskScore),
	}
}

// runScenario recomputes NOI under the perturbed inputs, and debt service
// under a new rate when the scenario shifts it.
func (c *Calculator) runScenario(spec scenarioSpec) StressScenario {
	baseGross := c.EstimatedRent * 12
	baseOpexNoMgmt := c.propertyTaxAnnual + c.insuranceAnnual + c.pmiAnnual +
		c.hoaAnnual + c.maintenanceAnnual + c.capexReserveAnnual

	gross := baseGross * spec.rentMult
	vacancy := gross * spec.vacancy
	egi := gross - vacancy
	mgmt := gross * c.Assume.ManagementFeePct
	opex := baseOpexNoMgmt*spec.expenseMult + mgmt

	noi := egi - opex

	debtService := c.annualDebtService
	if spec.rateAdd > 0 {
		lc := loan.NewCalculator(nil)
		newPayment := lc.MonthlyPayment(c.Terms.LoanAmount, c.Terms.InterestRateDecimal+spec.rateAdd, c.Terms.LoanTermYears)
		debtService = newPayment * 12
	}

	cashFlow := noi - debtService
	dscr := math.Inf(1)
	if debtService > 0 {
		dscr = noi / debtService
	}
	coc := 0.0
	if c.totalCashInvested > 0 {
		coc = cashFlow / c.totalCashInvested * 100
	}

	return StressScenario{
		Name:            spec.name,
		Description:     spec.description,
		CashFlowMonthly: round2(cashFlow / 12),
		CashFlowAnnual:  round2(cashFlow),
		DSCR:            round2(dscr),
		CashOnCash:      round2(coc),
		Passes:          cashFlow >= 0 && dscr >= 1.0,
	}
}

// breakEvens inverts the cash-flow model for the thresholds at which cash
// flow crosses zero.
func (c *Calculator) breakEvens(core CoreMetrics) BreakEvenMetrics {
	opex := core.OperatingExpenses
	ds := c.annualDebtService

	// Min monthly rent, closed form:
	// rent*12*(1-vacancy) >= opex + debt service.
	minRent := math.Inf(1)
	if c.Assume.VacancyRate < 1 {
		minRent = (opex + ds) / (1 - c.Assume.VacancyRate) / 12
	}

	// Max purchase price for an 8% cash-on-cash target. This is an
	// approximation, not an exact inverse: a lower price reduces NOI inputs,
	// debt service, and cash invested jointly, so we scale the current price
	// by the NOI ratio and cap at 1.5-2x.
	const targetCoC = 0.08
	maxPrice := 0.0
	if c.totalCashInvested > 0 && c.PurchasePrice > 0 {
		currentCF := core.CashFlowBeforeTax
		neededCF := targetCoC * c.totalCashInvested
		switch {
		case currentCF > neededCF:
			maxPrice = c.PurchasePrice * 1.5
		case core.NOI > 0:
			ratio := 1.0
			if denom := core.NOI - currentCF + neededCF; denom > 0 {
				ratio = core.NOI / denom
			}
			maxPrice = c.PurchasePrice * math.Min(ratio, 2.0)
		}
	}

	maxRate := c.findMaxRate(core.NOI)

	// Max vacancy, closed form: NOI(v) = gross*(1-v) - opex = ds
	// => v = 1 - (ds + opex)/gross, clamped to [0, 1].
	gross := c.EstimatedRent * 12
	maxVac := 0.0
	if gross > 0 {
		maxVac = math.Max(0, math.Min(1-(ds+opex)/gross, 1.0))
	}

	return BreakEvenMetrics{
		MinMonthlyRent:   round2(math.Max(minRent, 0)),
		MaxPurchasePrice: round2(math.Max(maxPrice, 0)),
		MaxInterestRate:  round2(maxRate * 100),
		MaxVacancyRate:   round2(maxVac * 100),
	}
}

// findMaxRate binary-searches [0.1%, 25%] for the highest interest rate at
// which annual debt service stays below NOI. 50 iterations narrow the
// interval far past display precision.
func (c *Calculator) findMaxRate(noi float64) float64 {
	if noi <= 0 || c.Terms.LoanAmount <= 0 {
		return 0
	}

	lc := loan.NewCalculator(nil)
	lo, hi := 0.001, 0.25

	for i := 0; i < 50; i++ {
		mid := (lo + hi) / 2
		ds := lc.MonthlyPayment(c.Terms.LoanAmount, mid, c.Terms.LoanTermYears) * 12
		if ds < noi {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
