// Package loan calculates mortgage payments, loan terms, and yearly
// amortization schedules for the supported financing programs.
package loan

import "math"

// Terms is the full financing picture for one purchase. Dollar figures are
// rounded to cents; percentage fields are expressed in percent (not decimals)
// except InterestRateDecimal.
type Terms struct {
	LoanType                 Type    `json:"loan_type"`
	PurchasePrice            float64 `json:"purchase_price"`
	DownPaymentPct           float64 `json:"down_payment_pct"`
	DownPayment              float64 `json:"down_payment"`
	LoanAmount               float64 `json:"loan_amount"`
	InterestRate             float64 `json:"interest_rate"` // percent, for display
	InterestRateDecimal      float64 `json:"interest_rate_decimal"`
	LoanTermYears            int     `json:"loan_term_years"`
	MonthlyPrincipalInterest float64 `json:"monthly_principal_interest"`
	PropertyTaxAnnual        float64 `json:"property_tax_annual"`
	PropertyTaxMonthly       float64 `json:"property_tax_monthly"`
	InsuranceAnnual          float64 `json:"insurance_annual"`
	InsuranceMonthly         float64 `json:"insurance_monthly"`
	PMIMonthly               float64 `json:"pmi_monthly"`
	HOAMonthly               float64 `json:"hoa_monthly"`
	TotalMonthlyPayment      float64 `json:"total_monthly_payment"`
	UpfrontCosts             float64 `json:"upfront_costs"`
	TotalInterest            float64 `json:"total_interest"`
	TotalCostOfLoan          float64 `json:"total_cost_of_loan"`
}

// AmortizationEntry is one loan year of the amortization schedule.
type AmortizationEntry struct {
	Year             int     `json:"year"`
	PrincipalPaid    float64 `json:"principal_paid"`
	InterestPaid     float64 `json:"interest_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// DetailsInput collects the knobs for Details. Optional fields use pointers
// so "not provided" is distinct from zero.
type DetailsInput struct {
	PurchasePrice     float64
	LoanType          Type
	DownPaymentPct    *float64 // decimal; nil means the type's default
	InterestRate      float64  // decimal, e.g. 0.065
	LoanTermYears     int
	PropertyTaxAnnual *float64 // nil: estimated at 1.5% of price
	InsuranceAnnual   *float64 // nil: estimated at 0.5% of price
	HOAMonthly        float64
}

// Calculator computes loan terms from an injected parameter table.
type Calculator struct {
	params map[Type]Params
}

// NewCalculator builds a Calculator. A nil table falls back to DefaultParams.
func NewCalculator(params map[Type]Params) *Calculator {
	if params == nil {
		params = DefaultParams()
	}
	return &Calculator{params: params}
}

// MonthlyPayment returns the standard amortized payment
// M = P * r(1+r)^n / ((1+r)^n - 1) for monthly rate r over n payments.
func (c *Calculator) MonthlyPayment(principal, annualRate float64, years int) float64 {
	if principal <= 0 {
		return 0
	}

	monthlyRate := annualRate / 12.0
	n := float64(years * 12)

	if monthlyRate == 0 {
		return round2(principal / n)
	}

	factor := math.Pow(1+monthlyRate, n)
	return round2(principal * (monthlyRate * factor) / (factor - 1))
}

// Details computes the full Terms for a purchase, applying the loan type's
// down-payment floor and insurance-cost rules.
func (c *Calculator) Details(in DetailsInput) Terms {
	p, ok := c.params[in.LoanType]
	if !ok {
		in.LoanType = Conventional
		p = c.params[Conventional]
	}

	downPct := p.DefaultDownPaymentPct
	if in.DownPaymentPct != nil {
		downPct = *in.DownPaymentPct
	}
	if downPct < p.MinDownPaymentPct {
		downPct = p.MinDownPaymentPct
	}

	downPayment := in.PurchasePrice * downPct
	loanAmount := in.PurchasePrice - downPayment

	monthlyPI := c.MonthlyPayment(loanAmount, in.InterestRate, in.LoanTermYears)

	var pmiMonthly, upfrontCosts float64
	switch in.LoanType {
	case Conventional:
		// PMI required below 20% down.
		if downPct < 0.20 {
			pmiMonthly = loanAmount * p.PMIRateAnnual / 12.0
		}
	case FHA:
		pmiMonthly = loanAmount * p.MIPRateAnnual / 12.0
		upfrontCosts += loanAmount * p.MIPUpfront
	case VA:
		upfrontCosts += loanAmount * p.FundingFeePct
	case USDA:
		pmiMonthly = loanAmount * p.GuaranteeFeeAnnual / 12.0
		upfrontCosts += loanAmount * p.GuaranteeFeeUpfront
	}

	taxAnnual := in.PurchasePrice * 0.015
	if in.PropertyTaxAnnual != nil {
		taxAnnual = *in.PropertyTaxAnnual
	}
	insAnnual := in.PurchasePrice * 0.005
	if in.InsuranceAnnual != nil {
		insAnnual = *in.InsuranceAnnual
	}

	totalMonthly := monthlyPI + taxAnnual/12 + insAnnual/12 + pmiMonthly + in.HOAMonthly

	totalPayments := float64(in.LoanTermYears * 12)
	totalInterest := monthlyPI*totalPayments - loanAmount

	return Terms{
		LoanType:                 in.LoanType,
		PurchasePrice:            round2(in.PurchasePrice),
		DownPaymentPct:           round2(downPct * 100),
		DownPayment:              round2(downPayment),
		LoanAmount:               round2(loanAmount),
		InterestRate:             round2(in.InterestRate * 100),
		InterestRateDecimal:      in.InterestRate,
		LoanTermYears:            in.LoanTermYears,
		MonthlyPrincipalInterest: monthlyPI,
		PropertyTaxAnnual:        round2(taxAnnual),
		PropertyTaxMonthly:       round2(taxAnnual / 12),
		InsuranceAnnual:          round2(insAnnual),
		InsuranceMonthly:         round2(insAnnual / 12),
		PMIMonthly:               round2(pmiMonthly),
		HOAMonthly:               round2(in.HOAMonthly),
		TotalMonthlyPayment:      round2(totalMonthly),
		UpfrontCosts:             round2(upfrontCosts),
		TotalInterest:            round2(totalInterest),
		TotalCostOfLoan:          round2(loanAmount + totalInterest),
	}
}

// AmortizationSchedule walks the loan month by month and aggregates principal
// and interest into one entry per loan year.
func (c *Calculator) AmortizationSchedule(loanAmount, annualRate float64, years int) []AmortizationEntry {
	if loanAmount <= 0 || years <= 0 {
		return nil
	}

	monthlyPayment := c.MonthlyPayment(loanAmount, annualRate, years)
	monthlyRate := annualRate / 12.0

	schedule := make([]AmortizationEntry, 0, years)
	balance := loanAmount

	for year := 1; year <= years; year++ {
		var yearInterest, yearPrincipal float64
		for m := 0; m < 12; m++ {
			interest := balance * monthlyRate
			principal := monthlyPayment - interest
			if principal > balance {
				principal = balance
			}
			balance -= principal
			yearInterest += interest
			yearPrincipal += principal
		}
		schedule = append(schedule, AmortizationEntry{
			Year:             year,
			PrincipalPaid:    round2(yearPrincipal),
			InterestPaid:     round2(yearInterest),
			RemainingBalance: round2(math.Max(balance, 0)),
		})
	}
	return schedule
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
