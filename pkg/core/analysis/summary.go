package analysis

import (
	"fmt"
	"math"
	"strings"
)

// ExecutiveSummary produces the headline takeaways for the full analysis.
func (c *Calculator) ExecutiveSummary(core CoreMetrics, proj ProjectionResult, tax TaxAnalysis, risk RiskAnalysis, best *StrategyScore) []string {
	var summary []string

	if best != nil {
		summary = append(summary, fmt.Sprintf("Best strategy: %s (Score: %.1f/100, Grade: %s)",
			strategyTitle(best.Strategy), best.Score, best.Grade))
	}

	monthlyCF := core.CashFlowBeforeTax / 12
	if monthlyCF >= 0 {
		summary = append(summary, fmt.Sprintf("Positive monthly cash flow of $%.0f before tax", monthlyCF))
	} else {
		summary = append(summary, fmt.Sprintf("Negative monthly cash flow of $%.0f - property requires subsidy", monthlyCF))
	}

	if proj.IRR != nil {
		summary = append(summary, fmt.Sprintf("Projected %d-year IRR of %.1f%% with $%.0f net sale proceeds",
			c.Assume.HoldYears, *proj.IRR, proj.NetSaleProceeds))
	}

	if tax.PaperLoss < 0 {
		summary = append(summary, fmt.Sprintf("Tax shelter: $%.0f paper loss generates $%.0f in tax savings (Year 1)",
			math.Abs(tax.PaperLoss), tax.TaxSavings))
	} else {
		summary = append(summary, fmt.Sprintf("Taxable income of $%.0f in Year 1", tax.TaxableIncome))
	}

	passing := 0
	for _, s := range risk.Scenarios {
		if s.Passes {
			passing++
		}
	}
	summary = append(summary, fmt.Sprintf("Risk: passes %d/%d stress tests", passing, len(risk.Scenarios)))

	switch {
	case core.CapRate >= 6:
		summary = append(summary, fmt.Sprintf("Cap rate of %.1f%% indicates solid income relative to price", core.CapRate))
	case core.CapRate >= 4:
		summary = append(summary, fmt.Sprintf("Cap rate of %.1f%% is moderate - typical for stable markets", core.CapRate))
	default:
		summary = append(summary, fmt.Sprintf("Cap rate of %.1f%% is low - may be an appreciation play", core.CapRate))
	}

	return summary
}

// strategyTitle turns a strategy tag into display form, e.g.
// "long_term_appreciation" -> "Long Term Appreciation".
func strategyTitle(tag string) string {
	words := strings.Split(tag, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
