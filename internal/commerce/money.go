package commerce

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Balance and price arithmetic is done in decimal and converted back at the edges.
// decimal panics on NaN and Inf, so operands and results are checked on both sides.

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func checkFinite(v float64) (float64, error) {
	if !finite(v) {
		return 0, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}
	return v, nil
}

func addAmount(a, b float64) (float64, error) {
	if !finite(a) || !finite(b) {
		return checkFinite(math.Inf(1))
	}
	return checkFinite(decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64())
}

func subAmount(a, b float64) (float64, error) {
	if !finite(a) || !finite(b) {
		return checkFinite(math.Inf(1))
	}
	return checkFinite(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64())
}

func totalFor(unitPrice float64, quantity int) (float64, error) {
	if !finite(unitPrice) {
		return checkFinite(unitPrice)
	}
	return checkFinite(decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64())
}
