package analysis

import (
	"math"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/finance"
)

// Projection builds the 30-year projection and terminal sale economics.
//
// The IRR series is [-total cash invested, ATCF_1 .. ATCF_holdYears] with net
// sale proceeds added into the final entry. Equity multiple is the sum of the
// post-investment entries over invested capital.
func (c *Calculator) Projection() ProjectionResult {
	years := make([]YearProjection, 0, projectionYears)
	cashflows := []float64{-c.totalCashInvested}

	holdYears := c.Assume.HoldYears

	for yr := 1; yr <= projectionYears; yr++ {
		rentGrowth := math.Pow(1+c.Assume.RentGrowthRate, float64(yr-1))
		expenseGrowth := math.Pow(1+c.Assume.ExpenseGrowthRate, float64(yr-1))
		valueGrowth := math.Pow(1+c.Assume.AppreciationRate, float64(yr))

		grossIncome := c.EstimatedRent * 12 * rentGrowth
		vacancyLoss := grossIncome * c.Assume.VacancyRate
		egi := grossIncome - vacancyLoss

		// Management fee scales with income, not with the expense growth rate.
		// PMI does not inflate.
		managementFee := grossIncome * c.Assume.ManagementFeePct
		opex := (c.propertyTaxAnnual+c.insuranceAnnual+c.hoaAnnual+
			c.maintenanceAnnual+c.capexReserveAnnual)*expenseGrowth +
			c.pmiAnnual + managementFee

		noi := egi - opex
		debtService := c.annualDebtService
		cashFlowBT := noi - debtService

		depreciation := c.annualDepreciation
		mortgageInterest, loanBalance := c.amortizationAt(yr)

		taxableIncome := noi - depreciation - mortgageInterest
		tax := 0.0
		if taxableIncome > 0 {
			tax = taxableIncome * c.Assume.MarginalTaxRate
		}
		cashFlowAT := cashFlowBT - tax

		propertyValue := c.PurchasePrice * valueGrowth
		equity := propertyValue - loanBalance
		roe := 0.0
		if equity > 0 {
			roe = cashFlowBT / equity * 100
		}

		years = append(years, YearProjection{
			Year:              yr,
			GrossIncome:       round2(grossIncome),
			VacancyLoss:       round2(vacancyLoss),
			EffectiveIncome:   round2(egi),
			OperatingExpenses: round2(opex),
			NOI:               round2(noi),
			DebtService:       round2(debtService),
			CashFlowBeforeTax: round2(cashFlowBT),
			Depreciation:      round2(depreciation),
			MortgageInterest:  round2(mortgageInterest),
			TaxableIncome:     round2(taxableIncome),
			TaxLiability:      round2(tax),
			CashFlowAfterTax:  round2(cashFlowAT),
			PropertyValue:     round2(propertyValue),
			LoanBalance:       round2(loanBalance),
			Equity:            round2(equity),
			ReturnOnEquity:    round2(roe),
		})

		if yr <= holdYears {
			cashflows = append(cashflows, cashFlowAT)
		}
	}

	// Terminal sale at hold year.
	holdYr := years[holdYears-1]
	terminalSalePrice := holdYr.PropertyValue
	sellingCosts := terminalSalePrice * sellingCostPct

	// Recapture only the depreciation actually taken, never beyond the basis.
	recaptureTax := math.Min(c.annualDepreciation*float64(holdYears), c.depreciableBasis) * recaptureTaxRate
	netSale := terminalSalePrice - sellingCosts - holdYr.LoanBalance - recaptureTax

	if len(cashflows) > 1 {
		cashflows[len(cashflows)-1] += netSale
	}

	result := ProjectionResult{
		Years:                    years,
		TerminalSalePrice:        round2(terminalSalePrice),
		SellingCosts:             round2(sellingCosts),
		DepreciationRecaptureTax: round2(recaptureTax),
		NetSaleProceeds:          round2(netSale),
	}

	if irr, ok := finance.IRR(cashflows); ok {
		irrPct := round2(irr * 100)
		result.IRR = &irrPct
		annualized := irrPct
		result.AnnualizedReturn = &annualized
	}
	if npv, ok := finance.NPV(cashflows, c.Assume.DiscountRate); ok {
		npvRounded := round2(npv)
		result.NPV = &npvRounded
	}

	if c.totalCashInvested > 0 {
		totalReturned := 0.0
		for _, cf := range cashflows[1:] {
			totalReturned += cf
		}
		em := round2(totalReturned / c.totalCashInvested)
		result.EquityMultiple = &em
	} else {
		zero := 0.0
		result.EquityMultiple = &zero
	}

	return result
}
