package analysis

import "sort"

// BuildComparableAnalysis derives median price-per-sqft statistics from
// already-fetched sale and rental comps and positions the subject against
// them. Fetching is the orchestrator's job; this stays pure.
func (c *Calculator) BuildComparableAnalysis(saleComps, rentalComps []CompProperty, subjectSqft int) ComparableAnalysis {
	result := ComparableAnalysis{
		SaleComps:   saleComps,
		RentalComps: rentalComps,
	}

	if m, ok := medianPricePerSqft(saleComps); ok {
		rounded := round2(m)
		result.MedianSalePriceSqft = &rounded
	}
	if m, ok := medianPricePerSqft(rentalComps); ok {
		rounded := round2(m)
		result.MedianRentSqft = &rounded
	}

	if subjectSqft > 0 {
		priceSqft := round2(c.PurchasePrice / float64(subjectSqft))
		rentSqft := round2(c.EstimatedRent / float64(subjectSqft))
		result.SubjectPriceSqft = &priceSqft
		result.SubjectRentSqft = &rentSqft

		if result.MedianSalePriceSqft != nil && priceSqft > 0 {
			result.PriceVsMarket = vsMarket(priceSqft / *result.MedianSalePriceSqft)
		}
		if result.MedianRentSqft != nil && rentSqft > 0 {
			result.RentVsMarket = vsMarket(rentSqft / *result.MedianRentSqft)
		}
	}

	return result
}

// vsMarket classifies a subject/median ratio with a 5% neutral band.
func vsMarket(ratio float64) string {
	switch {
	case ratio > 1.05:
		return "above"
	case ratio < 0.95:
		return "below"
	default:
		return "at"
	}
}

func medianPricePerSqft(comps []CompProperty) (float64, bool) {
	if len(comps) == 0 {
		return 0, false
	}
	values := make([]float64, 0, len(comps))
	for _, c := range comps {
		values = append(values, c.PricePerSqft)
	}
	sort.Float64s(values)

	n := len(values)
	if n%2 == 1 {
		return values[n/2], true
	}
	return (values[n/2-1] + values[n/2]) / 2, true
}
