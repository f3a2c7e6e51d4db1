// Package precision normalizes decimal prices and volumes to the per-pair
// precision the exchange enforces. Each tradable pair advertises its price
// decimals (pair_decimals) and volume decimals (lot_decimals) in the asset-pair
// metadata; order parameters with more digits than that are rejected outright,
// so values are truncated, never padded, before they reach the wire.
package precision

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundDown truncates toward zero at the given number of decimal places.
func RoundDown(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Truncate(places)
}

// RoundNormal rounds to nearest at the given number of decimal places (standard rounding).
func RoundNormal(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundUp rounds away from zero (ceiling for positive numbers).
func RoundUp(d decimal.Decimal, places int32) decimal.Decimal {
	factor := decimal.New(1, places) // 10^places
	return d.Mul(factor).Ceil().Div(factor)
}

// DecimalPlaces returns the number of decimal digits in d.
func DecimalPlaces(d decimal.Decimal) int32 {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	return -exp
}

// FormatPrice renders a price truncated to the pair's quote precision.
// Truncation rather than rounding: rounding a limit price up can move it
// across the spread, which is never what the caller asked for.
func FormatPrice(price decimal.Decimal, pairDecimals int32) string {
	return price.Truncate(pairDecimals).String()
}

// FormatVolume renders a volume truncated to the pair's lot precision.
func FormatVolume(volume decimal.Decimal, lotDecimals int32) string {
	return volume.Truncate(lotDecimals).String()
}

// CheckOrderMin verifies that a volume meets the pair's minimum order size.
func CheckOrderMin(volume, orderMin decimal.Decimal) error {
	if volume.LessThan(orderMin) {
		return fmt.Errorf("precision: volume %s below pair minimum %s", volume, orderMin)
	}
	return nil
}
