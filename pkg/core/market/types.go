// Package market provides a RentCast API client with response caching for
// property records, value/rent estimates, market statistics, and active
// listings.
package market

// PropertyRecord is a RentCast property search result. Only the fields the
// analysis consumes are mapped.
type PropertyRecord struct {
	ID               string  `json:"id,omitempty"`
	FormattedAddress string  `json:"formattedAddress,omitempty"`
	AddressLine1     string  `json:"addressLine1,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	ZipCode          string  `json:"zipCode,omitempty"`
	PropertyType     string  `json:"propertyType,omitempty"`
	Bedrooms         int     `json:"bedrooms,omitempty"`
	Bathrooms        float64 `json:"bathrooms,omitempty"`
	SquareFootage    int     `json:"squareFootage,omitempty"`
	YearBuilt        int     `json:"yearBuilt,omitempty"`
	Price            float64 `json:"price,omitempty"`
	LastSalePrice    float64 `json:"lastSalePrice,omitempty"`
	RentEstimate     float64 `json:"rentEstimate,omitempty"`
}

// ValueEstimate is the AVM response for /avm/value.
type ValueEstimate struct {
	Price          float64 `json:"price"`
	PriceRangeLow  float64 `json:"priceRangeLow,omitempty"`
	PriceRangeHigh float64 `json:"priceRangeHigh,omitempty"`
}

// RentEstimate is the response for /avm/rent/long-term.
type RentEstimate struct {
	Rent          float64 `json:"rent"`
	RentRangeLow  float64 `json:"rentRangeLow,omitempty"`
	RentRangeHigh float64 `json:"rentRangeHigh,omitempty"`
}

// MarketStats summarizes a ZIP code's sale and rental markets.
type MarketStats struct {
	ID         string      `json:"id,omitempty"`
	ZipCode    string      `json:"zipCode,omitempty"`
	SaleData   *MarketSide `json:"saleData,omitempty"`
	RentalData *MarketSide `json:"rentalData,omitempty"`
}

// MarketSide is one side (sale or rental) of the market statistics.
type MarketSide struct {
	AveragePrice      float64 `json:"averagePrice,omitempty"`
	MedianPrice       float64 `json:"medianPrice,omitempty"`
	MinPrice          float64 `json:"minPrice,omitempty"`
	MaxPrice          float64 `json:"maxPrice,omitempty"`
	AverageRent       float64 `json:"averageRent,omitempty"`
	MedianRent        float64 `json:"medianRent,omitempty"`
	MedianDaysOnList  float64 `json:"medianDaysOnMarket,omitempty"`
	TotalListings     int     `json:"totalListings,omitempty"`
	NewListings       int     `json:"newListings,omitempty"`
	AveragePriceSqft  float64 `json:"averagePricePerSquareFoot,omitempty"`
	MedianPriceSqft   float64 `json:"medianPricePerSquareFoot,omitempty"`
	AverageSquareFeet float64 `json:"averageSquareFootage,omitempty"`
}

// Listing is an active sale or rental listing used for comparable analysis.
// Sale listings carry Price; rental listings carry Price or Rent depending on
// the endpoint version.
type Listing struct {
	FormattedAddress string  `json:"formattedAddress,omitempty"`
	Address          string  `json:"address,omitempty"`
	Price            float64 `json:"price,omitempty"`
	Rent             float64 `json:"rent,omitempty"`
	Bedrooms         int     `json:"bedrooms,omitempty"`
	Bathrooms        float64 `json:"bathrooms,omitempty"`
	SquareFootage    int     `json:"squareFootage,omitempty"`
	Sqft             int     `json:"sqft,omitempty"`
	PropertyType     string  `json:"propertyType,omitempty"`
}

// BestAddress prefers the formatted address when present.
func (l Listing) BestAddress() string {
	if l.FormattedAddress != "" {
		return l.FormattedAddress
	}
	return l.Address
}

// BestPrice resolves price-or-rent for rental listings.
func (l Listing) BestPrice() float64 {
	if l.Price != 0 {
		return l.Price
	}
	return l.Rent
}

// BestSqft resolves the two square-footage spellings the API has used.
func (l Listing) BestSqft() int {
	if l.SquareFootage != 0 {
		return l.SquareFootage
	}
	return l.Sqft
}

// ListingFilter narrows listing searches for comparable analysis. Nil fields
// are omitted from the query.
type ListingFilter struct {
	Bedrooms     *int
	Bathrooms    *float64
	SqftMin      *int
	SqftMax      *int
	PropertyType string
	Limit        int
}

// EstimateQuery narrows AVM value and rent estimates to a specific property
// profile. Nil fields are omitted.
type EstimateQuery struct {
	PropertyType  string
	Bedrooms      *int
	Bathrooms     *float64
	SquareFootage *int
	CompCount     *int
}
