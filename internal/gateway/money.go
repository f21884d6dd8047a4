package gateway

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the settlement currency's minor-unit exponent (2 for
// USD-style currencies: 100 cents per major unit).
const minorUnitExponent = 2

// MajorUnits converts an amount in integer cents into the major-unit decimal
// string the processor expects. The conversion is exact for any integer cent
// amount.
func MajorUnits(cents int64) string {
	return decimal.New(cents, -minorUnitExponent).StringFixed(minorUnitExponent)
}

// MinorUnits parses a major-unit decimal string back into integer cents. It
// rejects amounts with sub-cent precision so MajorUnits/MinorUnits round-trip
// exactly.
func MinorUnits(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("gateway: parse amount %q: %w", amount, err)
	}
	shifted := d.Shift(minorUnitExponent)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("gateway: amount %q has sub-cent precision", amount)
	}
	return shifted.IntPart(), nil
}
