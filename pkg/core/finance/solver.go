// Package finance provides discounted cash-flow valuation primitives:
// NPV over a cash-flow series and Newton-Raphson IRR root finding.
package finance

import "math"

const (
	maxIterations   = 200
	stepTolerance   = 1e-8
	derivativeFloor = 1e-12

	// Rates outside this band are treated as nonsensical. Anything above
	// 200% annualized is noise, not a return.
	rateFloor = -0.99
	rateCeil  = 2.00
)

// NPV computes the present value of a cash-flow series at the given discount
// rate: sum of cf_t / (1+rate)^t for t = 0..N. The second return value is
// false when the series is empty (NPV undefined, not zero).
func NPV(cashflows []float64, rate float64) (float64, bool) {
	if len(cashflows) == 0 {
		return 0, false
	}
	npv := 0.0
	for t, cf := range cashflows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv, true
}

// IRR solves for the discount rate at which NPV of the series is zero, using
// Newton-Raphson with an analytic derivative. The series convention is
// cashflows[0] = -(total invested), followed by periodic returns.
//
// Returns (rate, true) on convergence. Returns (0, false) when the IRR is not
// computable: fewer than 2 entries, total returned <= 0 (invested capital can
// never be recovered), a vanishing derivative, a solution stuck at a clamp
// boundary, or a residual NPV too large to trust.
func IRR(cashflows []float64) (float64, bool) {
	if len(cashflows) < 2 {
		return 0, false
	}

	totalInvested := math.Abs(cashflows[0])
	totalReturned := 0.0
	for _, cf := range cashflows[1:] {
		totalReturned += cf
	}

	// If total cash returned is non-positive the IRR is deeply negative or
	// undefined. Fail fast rather than chase a root that may not exist.
	if totalReturned <= 0 {
		return 0, false
	}

	// Initial guess from the simple-return heuristic, clamped to [-0.5, 0.5].
	r := 0.10
	if totalInvested > 0 {
		simpleReturn := (totalReturned - totalInvested) / totalInvested
		r = math.Max(-0.5, math.Min(simpleReturn/float64(len(cashflows)), 0.5))
	}

	for i := 0; i < maxIterations; i++ {
		npv, dnpv := npvAndDerivative(cashflows, r)

		if math.Abs(dnpv) < derivativeFloor {
			break
		}

		rNew := math.Max(rateFloor, math.Min(r-npv/dnpv, rateCeil))

		if math.Abs(rNew-r) < stepTolerance {
			// A converged value sitting on a clamp boundary means the clamp,
			// not a root, was reached.
			if math.Abs(rNew-rateCeil) < stepTolerance || math.Abs(rNew-rateFloor) < stepTolerance {
				break
			}
			return rNew, true
		}
		r = rNew
	}

	// Verify the candidate actually zeroes the NPV before reporting it. A
	// numerically unstable or non-existent root must never surface as a rate.
	npvCheck, _ := NPV(cashflows, r)
	if math.Abs(npvCheck) < math.Max(1.0, totalInvested*0.001) {
		return r, true
	}
	return 0, false
}

// npvAndDerivative evaluates NPV(r) and dNPV/dr = sum of -t*cf_t/(1+r)^(t+1)
// in a single pass.
func npvAndDerivative(cashflows []float64, r float64) (float64, float64) {
	var npv, dnpv float64
	for t, cf := range cashflows {
		ft := float64(t)
		npv += cf / math.Pow(1+r, ft)
		dnpv += -ft * cf / math.Pow(1+r, ft+1)
	}
	return npv, dnpv
}
