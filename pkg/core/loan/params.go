package loan

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// Type identifies the financing program.
type Type string

const (
	Conventional Type = "conventional"
	FHA          Type = "fha"
	VA           Type = "va"
	USDA         Type = "usda"
)

// Params holds the fixed parameters for one loan type. Rates are decimals.
type Params struct {
	MinDownPaymentPct     float64 `json:"min_down_payment_pct"`
	DefaultDownPaymentPct float64 `json:"default_down_payment_pct"`
	PMIRateAnnual         float64 `json:"pmi_rate_annual"`      // conventional PMI
	MIPRateAnnual         float64 `json:"mip_rate_annual"`      // FHA annual MIP
	MIPUpfront            float64 `json:"mip_upfront"`          // FHA upfront MIP
	FundingFeePct         float64 `json:"funding_fee_pct"`      // VA
	GuaranteeFeeAnnual    float64 `json:"guarantee_fee_annual"` // USDA
	GuaranteeFeeUpfront   float64 `json:"guarantee_fee_upfront"`
	MaxLoanAmount         float64 `json:"max_loan_amount"`
}

// DefaultParams returns the parameter table for all supported loan types.
// The table is built fresh on each call so a Calculator owns its copy; there
// is no process-wide mutable state.
func DefaultParams() map[Type]Params {
	return map[Type]Params{
		Conventional: {
			MinDownPaymentPct:     0.05,
			DefaultDownPaymentPct: 0.20,
			PMIRateAnnual:         0.005,
			MaxLoanAmount:         766550, // 2024 conforming limit
		},
		FHA: {
			MinDownPaymentPct:     0.035,
			DefaultDownPaymentPct: 0.035,
			MIPRateAnnual:         0.0085,
			MIPUpfront:            0.0175,
			MaxLoanAmount:         498257, // 2024 FHA limit, varies by area
		},
		VA: {
			MinDownPaymentPct:     0.0,
			DefaultDownPaymentPct: 0.0,
			FundingFeePct:         0.0215,
		},
		USDA: {
			MinDownPaymentPct:     0.0,
			DefaultDownPaymentPct: 0.0,
			GuaranteeFeeAnnual:    0.0035,
			GuaranteeFeeUpfront:   0.01,
		},
	}
}

// LoadParams reads an Hjson file of per-type overrides and merges it over the
// defaults. Only types present in the file are replaced, and each entry
// replaces its type wholesale. A missing file is not an error; the defaults
// stand.
func LoadParams(path string) (map[Type]Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultParams(), nil
		}
		return nil, fmt.Errorf("failed to read loan params: %w", err)
	}

	var overrides map[Type]Params
	if err := hjson.Unmarshal(data, &overrides); err != nil {
		return DefaultParams(), fmt.Errorf("failed to parse loan params %s: %w", path, err)
	}

	params := DefaultParams()
	for typ, p := range overrides {
		params[typ] = p
	}
	return params, nil
}
