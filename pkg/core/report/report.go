// Package report renders a FullAnalysisResult as a markdown investment
// report, with HTML conversion for the web surface.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/pipeline"
)

// Markdown renders the full analysis as a markdown document.
func Markdown(result *pipeline.FullAnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Investment Analysis: %s\n\n", result.PropertyData.Address)
	fmt.Fprintf(&b, "Analysis ID: `%s` | Generated: %s\n\n",
		result.AnalysisID, result.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("## Executive Summary\n\n")
	for _, line := range result.ExecutiveSummary {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n")

	loan := result.LoanDetails
	b.WriteString("## Financing\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Purchase Price | $%.0f |\n", loan.PurchasePrice)
	fmt.Fprintf(&b, "| Loan Type | %s |\n", loan.LoanType)
	fmt.Fprintf(&b, "| Down Payment | $%.0f |\n", loan.DownPayment)
	fmt.Fprintf(&b, "| Loan Amount | $%.0f |\n", loan.LoanAmount)
	fmt.Fprintf(&b, "| Rate / Term | %.2f%% / %d years |\n", loan.InterestRateDecimal*100, loan.LoanTermYears)
	fmt.Fprintf(&b, "| Monthly P&I | $%.2f |\n", loan.MonthlyPrincipalInterest)
	fmt.Fprintf(&b, "| Total Monthly Payment | $%.2f |\n\n", loan.TotalMonthlyPayment)

	core := result.CoreMetrics
	b.WriteString("## Year-1 Metrics\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| NOI | $%.0f |\n", core.NOI)
	fmt.Fprintf(&b, "| Cash Flow (before tax) | $%.0f/yr ($%.0f/mo) |\n", core.CashFlowBeforeTax, core.CashFlowBeforeTax/12)
	fmt.Fprintf(&b, "| Cash-on-Cash Return | %.2f%% |\n", core.CashOnCashReturn)
	fmt.Fprintf(&b, "| Cap Rate | %.2f%% |\n", core.CapRate)
	fmt.Fprintf(&b, "| DSCR | %s |\n", formatDSCR(core.DSCR))
	fmt.Fprintf(&b, "| Break-even Occupancy | %.1f%% |\n\n", core.BreakEvenOccupancy)

	proj := result.Projection
	b.WriteString("## Long-Term Projection\n\n")
	if proj.IRR != nil {
		fmt.Fprintf(&b, "- Projected IRR: %.1f%%\n", *proj.IRR)
	} else {
		b.WriteString("- Projected IRR: undefined (no rate recovers the invested capital)\n")
	}
	if proj.NPV != nil {
		fmt.Fprintf(&b, "- NPV: $%.0f\n", *proj.NPV)
	}
	if proj.EquityMultiple != nil {
		fmt.Fprintf(&b, "- Equity Multiple: %.2fx\n", *proj.EquityMultiple)
	}
	fmt.Fprintf(&b, "- Net Sale Proceeds (terminal): $%.0f\n\n", proj.NetSaleProceeds)

	b.WriteString("## Stress Tests\n\n")
	fmt.Fprintf(&b, "| Scenario | Annual Cash Flow | DSCR | Result |\n|---|---|---|---|\n")
	for _, s := range result.RiskAnalysis.Scenarios {
		outcome := "PASS"
		if !s.Passes {
			outcome = "FAIL"
		}
		fmt.Fprintf(&b, "| %s | $%.0f | %s | %s |\n", s.Name, s.CashFlowAnnual, formatDSCR(s.DSCR), outcome)
	}
	be := result.RiskAnalysis.BreakEven
	fmt.Fprintf(&b, "\nBreak-evens: min rent $%.0f/mo, max rate %.2f%%, max vacancy %.1f%%. Overall risk score: %.1f/100.\n\n",
		be.MinMonthlyRent, be.MaxInterestRate, be.MaxVacancyRate, result.RiskAnalysis.OverallRiskScore)

	b.WriteString("## Strategy Scores\n\n")
	fmt.Fprintf(&b, "| Strategy | Score | Grade |\n|---|---|---|\n")
	for _, s := range result.StrategyScores {
		fmt.Fprintf(&b, "| %s | %.1f | %s |\n", s.Strategy, s.Score, s.Grade)
	}
	if result.BestStrategy != nil {
		fmt.Fprintf(&b, "\n**Recommended: %s** (%.1f, %s)\n\n",
			result.BestStrategy.Strategy, result.BestStrategy.Score, result.BestStrategy.Grade)
	}

	comps := result.Comparables
	b.WriteString("## Comparables\n\n")
	switch {
	case comps.Unavailable:
		b.WriteString("Comparable data was unavailable for this analysis.\n")
	case len(comps.SaleComps) == 0 && len(comps.RentalComps) == 0:
		b.WriteString("No comparable listings matched the subject profile.\n")
	default:
		if comps.MedianSalePriceSqft != nil && comps.SubjectPriceSqft != nil {
			fmt.Fprintf(&b, "- Price: $%.0f/sqft vs market median $%.0f/sqft (%s market)\n",
				*comps.SubjectPriceSqft, *comps.MedianSalePriceSqft, comps.PriceVsMarket)
		}
		if comps.MedianRentSqft != nil && comps.SubjectRentSqft != nil {
			fmt.Fprintf(&b, "- Rent: $%.2f/sqft vs market median $%.2f/sqft (%s market)\n",
				*comps.SubjectRentSqft, *comps.MedianRentSqft, comps.RentVsMarket)
		}
		fmt.Fprintf(&b, "- %d sale comps, %d rental comps considered\n",
			len(comps.SaleComps), len(comps.RentalComps))
	}

	return b.String()
}

// HTML converts the markdown report to HTML.
func HTML(result *pipeline.FullAnalysisResult) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(result)), &buf); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

// formatDSCR renders the all-cash infinity case readably.
func formatDSCR(dscr float64) string {
	if dscr > 1e6 {
		return "n/a (no debt)"
	}
	return fmt.Sprintf("%.2f", dscr)
}
