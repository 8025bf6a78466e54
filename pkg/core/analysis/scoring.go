package analysis

import (
	"fmt"
	"math"
)

// ScoreAllStrategies evaluates the deal against each of the five strategy
// models. The caller picks the best strategy as the argmax score.
func (c *Calculator) ScoreAllStrategies(core CoreMetrics, proj ProjectionResult, risk RiskAnalysis) []StrategyScore {
	return []StrategyScore{
		c.scoreRental(core, proj, risk),
		c.scoreFlip(core),
		c.scoreBRRRR(core, proj),
		c.scoreHouseHack(core),
		c.scoreLongTerm(core, proj, risk),
	}
}

// BestStrategy returns the highest-scoring strategy, or nil for an empty set.
func BestStrategy(scores []StrategyScore) *StrategyScore {
	if len(scores) == 0 {
		return nil
	}
	best := &scores[0]
	for i := range scores[1:] {
		if scores[i+1].Score > best.Score {
			best = &scores[i+1]
		}
	}
	return best
}

func irrOrZero(proj ProjectionResult) float64 {
	if proj.IRR != nil {
		return *proj.IRR
	}
	return 0
}

// dscrSubScore scales DSCR on an offset axis: 0.5 scores 0, target+0.5
// scores 100 (so 1.5 = 100 at the default target of 1.0).
func dscrSubScore(dscr, target float64) float64 {
	return clamp100((dscr - 0.5) / target * 100)
}

func (c *Calculator) scoreRental(core CoreMetrics, proj ProjectionResult, risk RiskAnalysis) StrategyScore {
	bench := StrategyBenchmarks[StrategyRental]

	sub := map[string]float64{
		"Cash-on-Cash": scaleToTarget(core.CashOnCashReturn, bench[0].Target),
		"Cap Rate":     scaleToTarget(core.CapRate, bench[1].Target),
		"DSCR":         dscrSubScore(core.DSCR, bench[2].Target),
		"Cash Flow":    scaleToTarget(core.CashFlowBeforeTax/12, bench[3].Target),
		"IRR":          scaleToTarget(irrOrZero(proj), bench[4].Target),
		"Risk":         math.Max(0, 100-risk.OverallRiskScore),
	}
	total := compose(StrategyRental, sub)

	var pros, cons []string
	if core.CashOnCashReturn >= 8 {
		pros = append(pros, fmt.Sprintf("Strong cash-on-cash return (%.1f%%)", core.CashOnCashReturn))
	} else {
		cons = append(cons, fmt.Sprintf("Low cash-on-cash return (%.1f%%)", core.CashOnCashReturn))
	}
	if core.DSCR >= 1.25 {
		pros = append(pros, fmt.Sprintf("Healthy DSCR (%.2f)", core.DSCR))
	} else {
		cons = append(cons, fmt.Sprintf("Tight DSCR (%.2f)", core.DSCR))
	}
	if core.CashFlowBeforeTax > 0 {
		pros = append(pros, fmt.Sprintf("Positive cash flow ($%.0f/mo)", core.CashFlowBeforeTax/12))
	} else {
		cons = append(cons, fmt.Sprintf("Negative cash flow ($%.0f/mo)", core.CashFlowBeforeTax/12))
	}

	return newScore(StrategyRental, total, sub, pros, cons)
}

// scoreFlip approximates flip economics from the appreciation assumption.
// Without rehab cost and ARV inputs the margin is a one-year appreciation
// estimate, and the scorer says so.
func (c *Calculator) scoreFlip(core CoreMetrics) StrategyScore {
	bench := StrategyBenchmarks[StrategyFlip]

	margin := 0.0
	if c.PurchasePrice > 0 {
		arvEstimate := c.PurchasePrice * (1 + c.Assume.AppreciationRate)
		margin = (arvEstimate - c.PurchasePrice) / c.PurchasePrice * 100
	}

	sub := map[string]float64{
		"Profit Margin": scaleToTarget(margin, bench[0].Target),
		"ROI":           scaleToTarget(margin, bench[1].Target),
	}
	total := compose(StrategyFlip, sub)

	var pros, cons []string
	if margin >= 15 {
		pros = append(pros, fmt.Sprintf("Estimated %.1f%% appreciation margin", margin))
	} else {
		cons = append(cons, fmt.Sprintf("Low flip margin (%.1f%%) without rehab data", margin))
	}
	cons = append(cons, "Flip analysis requires rehab cost and ARV inputs for accuracy")

	return newScore(StrategyFlip, total, sub, pros, cons)
}

// scoreBRRRR assumes a refinance at 75% LTV after year 1 and measures how
// much of the invested cash the refi pulls back out.
func (c *Calculator) scoreBRRRR(core CoreMetrics, proj ProjectionResult) StrategyScore {
	bench := StrategyBenchmarks[StrategyBRRRR]

	yr1Value := c.PurchasePrice * (1 + c.Assume.AppreciationRate)
	refiLoan := yr1Value * 0.75
	extraction := refiLoan - c.Terms.LoanAmount
	extractionPct := 0.0
	if c.totalCashInvested > 0 {
		extractionPct = extraction / c.totalCashInvested * 100
	}

	sub := map[string]float64{
		"Rental Return":     scaleToTarget(core.CashOnCashReturn, bench[0].Target),
		"Equity Extraction": scaleToTarget(extractionPct, bench[1].Target),
		"DSCR":              dscrSubScore(core.DSCR, bench[2].Target),
	}
	total := compose(StrategyBRRRR, sub)

	var pros, cons []string
	if extractionPct >= 70 {
		pros = append(pros, fmt.Sprintf("Strong equity extraction potential (%.0f%%)", extractionPct))
	} else {
		cons = append(cons, fmt.Sprintf("Limited equity extraction (%.0f%%)", extractionPct))
	}
	if core.CashOnCashReturn >= 10 {
		pros = append(pros, fmt.Sprintf("Meets BRRRR CoC target (%.1f%%)", core.CashOnCashReturn))
	} else {
		cons = append(cons, fmt.Sprintf("Below BRRRR CoC target (%.1f%% vs 10%%)", core.CashOnCashReturn))
	}
	cons = append(cons, "BRRRR analysis requires rehab cost and ARV for full accuracy")

	return newScore(StrategyBRRRR, total, sub, pros, cons)
}

// scoreHouseHack measures how far the rent goes toward the full monthly
// payment when the owner occupies half the property.
func (c *Calculator) scoreHouseHack(core CoreMetrics) StrategyScore {
	bench := StrategyBenchmarks[StrategyHouseHack]

	totalPayment := c.Terms.TotalMonthlyPayment
	rentalCoverage := 0.0
	costReduction := 0.0
	personalCost := 0.0
	if totalPayment > 0 {
		rentalCoverage = c.EstimatedRent / totalPayment * 100
		personalCost = totalPayment - c.EstimatedRent*0.5 // renting half
		costReduction = (totalPayment - personalCost) / totalPayment * 100
	}

	sub := map[string]float64{
		"Rental Coverage": scaleToTarget(rentalCoverage, bench[0].Target),
		"Cost Reduction":  scaleToTarget(costReduction, bench[1].Target),
	}
	total := compose(StrategyHouseHack, sub)

	var pros, cons []string
	switch {
	case rentalCoverage >= 75:
		pros = append(pros, fmt.Sprintf("Strong rental coverage (%.0f%% of payment)", rentalCoverage))
	case rentalCoverage >= 50:
		pros = append(pros, fmt.Sprintf("Moderate rental coverage (%.0f%% of payment)", rentalCoverage))
	default:
		cons = append(cons, fmt.Sprintf("Low rental coverage (%.0f%% of payment)", rentalCoverage))
	}
	if totalPayment > 0 && personalCost < totalPayment*0.5 {
		pros = append(pros, "Significant housing cost reduction")
	} else {
		cons = append(cons, "Limited personal cost savings")
	}

	return newScore(StrategyHouseHack, total, sub, pros, cons)
}

// scoreLongTerm weighs the 10-year IRR, net equity after cumulative cash
// losses, the appreciation assumption, and risk. A negative baseline cash
// flow applies a multiplicative penalty scaled by loss severity.
func (c *Calculator) scoreLongTerm(core CoreMetrics, proj ProjectionResult, risk RiskAnalysis) StrategyScore {
	bench := StrategyBenchmarks[StrategyLongTermAppreciation]

	irr10 := irrOrZero(proj)

	var cumulativeCF, netEquity float64
	equityScore := 0.0
	haveYr10 := len(proj.Years) >= 10
	if haveYr10 && c.totalCashInvested > 0 {
		for _, y := range proj.Years[:10] {
			cumulativeCF += y.CashFlowBeforeTax
		}
		// cumulativeCF is negative when the property loses money.
		netEquity = proj.Years[9].Equity + cumulativeCF
		equityMult := netEquity / c.totalCashInvested
		equityScore = scaleToTarget(equityMult, bench[1].Target)
	}

	sub := map[string]float64{
		"10Y IRR":      scaleToTarget(irr10, bench[0].Target),
		"Net Equity":   equityScore,
		"Appreciation": scaleToTarget(c.Assume.AppreciationRate*100, bench[2].Target),
		"Risk":         math.Max(0, 100-risk.OverallRiskScore),
	}
	rawTotal := compose(StrategyLongTermAppreciation, sub)

	penalty := 1.0
	if core.CashFlowBeforeTax < 0 {
		lossRatio := math.Abs(core.CashFlowBeforeTax) / math.Max(c.totalCashInvested, 1)
		penalty = math.Max(0.1, 1.0-lossRatio)
	}
	total := rawTotal * penalty

	var pros, cons []string
	switch {
	case irr10 >= 10:
		pros = append(pros, fmt.Sprintf("Strong projected IRR (%.1f%%)", irr10))
	case irr10 > 0:
		cons = append(cons, fmt.Sprintf("Moderate projected IRR (%.1f%%)", irr10))
	default:
		cons = append(cons, "Negative or undefined IRR")
	}
	if haveYr10 {
		if cumulativeCF < 0 {
			cons = append(cons, fmt.Sprintf("Cumulative cash loss of $%.0f over 10 years", math.Abs(cumulativeCF)))
		}
		if netEquity > 0 {
			pros = append(pros, fmt.Sprintf("Net equity of $%.0f at year 10 (after cash losses)", netEquity))
		} else {
			cons = append(cons, "Negative net equity at year 10 after cash losses")
		}
	}
	if c.Assume.AppreciationRate >= 0.04 {
		pros = append(pros, fmt.Sprintf("Above-average appreciation assumption (%.1f%%)", c.Assume.AppreciationRate*100))
	} else {
		cons = append(cons, fmt.Sprintf("Conservative appreciation (%.1f%%)", c.Assume.AppreciationRate*100))
	}

	return newScore(StrategyLongTermAppreciation, total, sub, pros, cons)
}

func newScore(strategy string, total float64, sub map[string]float64, pros, cons []string) StrategyScore {
	rounded := make(map[string]float64, len(sub))
	for k, v := range sub {
		rounded[k] = round1(v)
	}
	return StrategyScore{
		Strategy:        strategy,
		Score:           round1(math.Min(total, 100)),
		Grade:           gradeFor(total),
		Pros:            pros,
		Cons:            cons,
		ComponentScores: rounded,
	}
}
