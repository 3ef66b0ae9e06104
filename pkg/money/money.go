package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ToMinorUnits converts a major-unit amount (e.g. euros) into the currency's
// smallest unit (cents). The conversion must be exact: amounts with more than
// two decimal places are rejected instead of silently rounded, so a price can
// never drift by a fraction of a cent on its way to the gateway. Amounts whose
// minor value does not fit in an int64 are rejected as well; IntPart would
// wrap silently and a non-negative price must never come out negative.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", amount.String())
	}
	if minor.IsNegative() || minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("amount %s is outside the representable range", amount.String())
	}
	return minor.IntPart(), nil
}

// FromMinorUnits converts cents back into a major-unit decimal, for display
// and logging.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
