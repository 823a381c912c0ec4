// Package tariff implements the deterministic freight cost engine.
//
// The price of a shipment is additive:
//
//	total = base + weight×weightRate + distance×distanceRate + fees
//
// rounded to two decimal places. The calculation is side-effect free.
package tariff

import (
	"fmt"
	"math"

	"github.com/freightops/freight-console/internal/core/domain"
)

// Rates holds the per-unit cost factors applied on top of the base price.
type Rates struct {
	Weight   float64 // cost per weight unit
	Distance float64 // cost per kilometre
}

// DefaultRates is the canonical rate table: 0.5 per weight unit and
// 0.1 per kilometre.
var DefaultRates = Rates{Weight: 0.5, Distance: 0.1}

// Calculator computes shipment prices from a fixed rate table.
type Calculator struct {
	rates Rates
}

// NewCalculator returns a Calculator with the given rates. Zero-value rates
// are allowed; negative rates are clamped to the default table.
func NewCalculator(rates Rates) *Calculator {
	if rates.Weight < 0 || rates.Distance < 0 {
		rates = DefaultRates
	}
	return &Calculator{rates: rates}
}

// Price computes the total shipment cost. All inputs must be non-negative;
// a negative cost is never meaningful, so negative inputs are rejected
// rather than clamped.
func (c *Calculator) Price(basePrice, totalWeight, distanceKm, extraFees float64) (float64, error) {
	switch {
	case basePrice < 0:
		return 0, fmt.Errorf("%w: base price must not be negative", domain.ErrValidation)
	case totalWeight < 0:
		return 0, fmt.Errorf("%w: total weight must not be negative", domain.ErrValidation)
	case distanceKm < 0:
		return 0, fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	case extraFees < 0:
		return 0, fmt.Errorf("%w: extra fees must not be negative", domain.ErrValidation)
	}

	total := basePrice + totalWeight*c.rates.Weight + distanceKm*c.rates.Distance + extraFees
	return round2(total), nil
}

// Quote computes a price using the default rate table.
func Quote(basePrice, totalWeight, distanceKm, extraFees float64) (float64, error) {
	return NewCalculator(DefaultRates).Price(basePrice, totalWeight, distanceKm, extraFees)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
