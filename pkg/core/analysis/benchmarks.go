package analysis

import "math"

// Benchmark maps one component metric to the value that earns a full 100
// sub-score and its weight in the strategy composite. Sub-scores scale
// linearly against Target and are clamped to [0, 100]; weights per strategy
// sum to 1.
type Benchmark struct {
	Component string  `json:"component"`
	Target    float64 `json:"target"`
	Weight    float64 `json:"weight"`
}

// StrategyBenchmarks is the scoring table for all five strategies. Keeping
// the targets and weights as data lets tests validate the model without
// walking the scorer control flow.
var StrategyBenchmarks = map[string][]Benchmark{
	StrategyRental: {
		{Component: "Cash-on-Cash", Target: 8, Weight: 0.25}, // 8% CoC = 100
		{Component: "Cap Rate", Target: 6, Weight: 0.20},     // 6% cap = 100
		{Component: "DSCR", Target: 1.0, Weight: 0.20},       // scaled on (DSCR - 0.5); 1.5 = 100
		{Component: "Cash Flow", Target: 200, Weight: 0.15},  // $200/mo = 100
		{Component: "IRR", Target: 15, Weight: 0.10},         // 15% = 100
		{Component: "Risk", Target: 100, Weight: 0.10},       // inverse of risk score
	},
	StrategyFlip: {
		{Component: "Profit Margin", Target: 20, Weight: 0.60}, // 20% margin = 100
		{Component: "ROI", Target: 15, Weight: 0.40},
	},
	StrategyBRRRR: {
		{Component: "Rental Return", Target: 10, Weight: 0.40},      // 10% CoC = 100
		{Component: "Equity Extraction", Target: 100, Weight: 0.35}, // 100% of cash back = 100
		{Component: "DSCR", Target: 1.0, Weight: 0.25},
	},
	StrategyHouseHack: {
		{Component: "Rental Coverage", Target: 100, Weight: 0.60}, // rent covers full payment = 100
		{Component: "Cost Reduction", Target: 50, Weight: 0.40},   // 50% housing-cost cut = 100
	},
	StrategyLongTermAppreciation: {
		{Component: "10Y IRR", Target: 12, Weight: 0.35},
		{Component: "Net Equity", Target: 5, Weight: 0.30},   // 5x invested = 100
		{Component: "Appreciation", Target: 5, Weight: 0.20}, // 5%/yr assumption = 100
		{Component: "Risk", Target: 100, Weight: 0.15},
	},
}

// scaleToTarget converts a raw metric into a [0,100] sub-score, linear
// against the benchmark target.
func scaleToTarget(value, target float64) float64 {
	return clamp100(value / target * 100)
}

func clamp100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// compose applies the strategy's weight table to the named sub-scores.
func compose(strategy string, subScores map[string]float64) float64 {
	total := 0.0
	for _, b := range StrategyBenchmarks[strategy] {
		total += subScores[b.Component] * b.Weight
	}
	return total
}

// gradeBreakpoints maps composite scores to letter grades, highest first.
var gradeBreakpoints = []struct {
	Min   float64
	Grade string
}{
	{95, "A+"}, {90, "A"}, {85, "A-"},
	{80, "B+"}, {75, "B"}, {70, "B-"},
	{65, "C+"}, {60, "C"}, {55, "C-"},
	{50, "D+"}, {45, "D"}, {40, "D-"},
}

// gradeFor returns the letter grade for a composite score; anything below
// the last breakpoint is an F.
func gradeFor(score float64) string {
	for _, bp := range gradeBreakpoints {
		if score >= bp.Min {
			return bp.Grade
		}
	}
	return "F"
}
