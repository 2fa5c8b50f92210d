package core

// pricing.go computes shipping price quotes across the configured
// service tiers.
//
// The formula is a fixed rate card, not a live carrier integration:
// base + total_ounces * per_oz_rate, clamped to the tier's [min, max]
// band. Package dimensions are accepted everywhere for interface
// symmetry but do not currently enter the formula; dimensional weight
// is an open product question, so the passthrough is intentional.

import (
	"errors"
	"fmt"
	"sort"
)

// FallbackServiceID is returned by Cheapest when no tiers are
// configured.
const FallbackServiceID = "ground_shipping"

// ErrUnknownService is returned when a quote is requested for a tier id
// that is not configured.
var ErrUnknownService = errors.New("unknown shipping service")

// ServiceTier is one named shipping speed/price configuration.
type ServiceTier struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BasePrice Cents  `json:"base_price"`
	PerOzRate Cents  `json:"per_oz_rate"`
	MinPrice  Cents  `json:"min_price"`
	MaxPrice  Cents  `json:"max_price"`
}

// TierQuote is a freshly computed price for one tier. Quotes are never
// cached; package attributes can change between calls.
type TierQuote struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BasePrice Cents  `json:"base_price"`
	PerOzRate Cents  `json:"per_oz_rate"`
	Price     Cents  `json:"price"`
}

// DefaultTiers returns the reference rate card: a cheaper slower tier
// and a costlier faster one.
func DefaultTiers() []ServiceTier {
	return []ServiceTier{
		{
			ID:        "priority_mail",
			Name:      "Priority Mail",
			BasePrice: 500,
			PerOzRate: 10,
			MinPrice:  400,
			MaxPrice:  800,
		},
		{
			ID:        "ground_shipping",
			Name:      "Ground Shipping",
			BasePrice: 250,
			PerOzRate: 5,
			MinPrice:  200,
			MaxPrice:  500,
		},
	}
}

// Quoter prices packages against a static set of service tiers. It holds
// only read-only configuration and is safe for concurrent use.
type Quoter struct {
	tiers []ServiceTier
	byID  map[string]ServiceTier
}

// NewQuoter creates a Quoter over the given tiers. Tier order is
// preserved and used as the tie-break in QuoteAll.
func NewQuoter(tiers []ServiceTier) *Quoter {
	byID := make(map[string]ServiceTier, len(tiers))
	for _, t := range tiers {
		byID[t.ID] = t
	}
	return &Quoter{tiers: tiers, byID: byID}
}

// Tier returns the configuration for a tier id.
func (q *Quoter) Tier(id string) (ServiceTier, bool) {
	t, ok := q.byID[id]
	return t, ok
}

// Quote computes the price for one tier and package. The result always
// lies within the tier's [MinPrice, MaxPrice] band.
func (q *Quoter) Quote(tierID string, pkg PackageDetails) (Cents, error) {
	tier, ok := q.byID[tierID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownService, tierID)
	}

	price := tier.BasePrice + Cents(totalOunces(pkg))*tier.PerOzRate
	if price < tier.MinPrice {
		price = tier.MinPrice
	}
	if price > tier.MaxPrice {
		price = tier.MaxPrice
	}
	return price, nil
}

// QuoteAll prices the package against every configured tier, ascending
// by price. Ties keep configuration order (stable sort).
func (q *Quoter) QuoteAll(pkg PackageDetails) []TierQuote {
	quotes := make([]TierQuote, 0, len(q.tiers))
	for _, tier := range q.tiers {
		price, err := q.Quote(tier.ID, pkg)
		if err != nil {
			continue // unreachable for configured tiers
		}
		quotes = append(quotes, TierQuote{
			ID:        tier.ID,
			Name:      tier.Name,
			BasePrice: tier.BasePrice,
			PerOzRate: tier.PerOzRate,
			Price:     price,
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Price < quotes[j].Price
	})
	return quotes
}

// Cheapest returns the id of the lowest-priced tier for the package, or
// FallbackServiceID when no tiers are configured.
func (q *Quoter) Cheapest(pkg PackageDetails) string {
	quotes := q.QuoteAll(pkg)
	if len(quotes) == 0 {
		return FallbackServiceID
	}
	return quotes[0].ID
}

// totalOunces converts the package weight to ounces. A package with no
// weight at all floors to 1 oz so every package prices non-trivially.
func totalOunces(pkg PackageDetails) int {
	total := 0
	if pkg.WeightLbs != nil {
		total += *pkg.WeightLbs * 16
	}
	if pkg.WeightOz != nil {
		total += *pkg.WeightOz
	}
	if total == 0 {
		total = 1
	}
	return total
}
