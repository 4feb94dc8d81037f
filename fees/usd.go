package fees

import (
	"fmt"

	"cosmossdk.io/math"
)

// ScaleUSD parses a human USD value such as "0.15" into an integer scaled by
// precision, truncating anything finer than the precision can carry.
func ScaleUSD(value string, precision uint32) (uint64, error) {
	dec, err := math.LegacyNewDecFromStr(value)
	if err != nil {
		return 0, fmt.Errorf("invalid usd value %q: %w", value, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("usd value %q is negative", value)
	}
	scaled := dec.MulInt64(int64(precision)).TruncateInt()
	if !scaled.IsUint64() {
		return 0, fmt.Errorf("usd value %q overflows at precision %d", value, precision)
	}
	return scaled.Uint64(), nil
}

// FormatUSD renders a precision-scaled USD value.
func FormatUSD(scaled uint64, precision uint32) string {
	if precision == 0 {
		return "0"
	}
	return math.LegacyNewDecFromInt(math.NewIntFromUint64(scaled)).QuoInt64(int64(precision)).String()
}

// FormatAmount renders a token amount in whole units.
func FormatAmount(amount uint64, decimals uint8) string {
	return math.LegacyNewDecFromIntWithPrec(math.NewIntFromUint64(amount), int64(decimals)).String()
}

// ScaleAmount parses a whole-unit amount such as "1.5" into the token's
// smallest unit. Digits beyond decimals are truncated.
func ScaleAmount(value string, decimals uint8) (uint64, error) {
	dec, err := math.LegacyNewDecFromStr(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", value)
	}
	scaled := dec.MulInt(math.NewIntWithDecimal(1, int(decimals))).TruncateInt()
	if !scaled.IsUint64() {
		return 0, fmt.Errorf("amount %q overflows with %d decimals", value, decimals)
	}
	return scaled.Uint64(), nil
}
