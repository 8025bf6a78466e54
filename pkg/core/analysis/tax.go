package analysis

import "math"

// TaxAnalysis computes the year-1 tax shield: straight-line depreciation on
// the 80% improvement basis over 27.5 years plus year-1 mortgage interest,
// netted against NOI. A paper loss converts to savings at the marginal rate.
func (c *Calculator) TaxAnalysis(core CoreMetrics) TaxAnalysis {
	interestYr1, _ := c.amortizationAt(1)

	taxableIncome := core.NOI - c.annualDepreciation - interestYr1
	paperLoss := math.Min(taxableIncome, 0)

	taxSavings := 0.0
	if paperLoss < 0 {
		taxSavings = math.Abs(paperLoss) * c.Assume.MarginalTaxRate
	}
	taxOwed := 0.0
	if taxableIncome > 0 {
		taxOwed = taxableIncome * c.Assume.MarginalTaxRate
	}

	cashFlowAT := core.CashFlowBeforeTax - taxOwed + taxSavings

	return TaxAnalysis{
		AnnualDepreciation:    round2(c.annualDepreciation),
		DepreciableBasis:      round2(c.depreciableBasis),
		DepreciationYears:     depreciationYears,
		MortgageInterestYear1: round2(interestYr1),
		NOI:                   round2(core.NOI),
		TaxableIncome:         round2(taxableIncome),
		PaperLoss:             round2(paperLoss),
		TaxSavings:            round2(taxSavings),
		CashFlowAfterTax:      round2(cashFlowAT),
		MarginalTaxRate:       c.Assume.MarginalTaxRate,
	}
}
