package types

// BridgeDecimals is the precision the messaging bridge carries amounts at.
const BridgeDecimals = 8

// NormalizeAmount scales amount down to the bridge's 8 decimals. Tokens with
// 8 or fewer decimals are carried as-is. A scale past uint64 leaves nothing
// the bridge can carry.
func NormalizeAmount(amount uint64, decimals uint8) uint64 {
	if decimals <= BridgeDecimals {
		return amount
	}
	scale := pow10(decimals - BridgeDecimals)
	if scale == 0 {
		return 0
	}
	return amount / scale
}

// DenormalizeAmount scales an 8-decimal amount back to a token's decimals.
// The second return is false if the result does not fit in a uint64.
func DenormalizeAmount(amount uint64, decimals uint8) (uint64, bool) {
	if decimals <= BridgeDecimals {
		return amount, true
	}
	scale := pow10(decimals - BridgeDecimals)
	if scale == 0 || (amount != 0 && amount > ^uint64(0)/scale) {
		return 0, false
	}
	return amount * scale, true
}

// TruncateAmount drops the dust the bridge cannot carry for a token with the
// given decimals.
func TruncateAmount(amount uint64, decimals uint8) uint64 {
	truncated, _ := DenormalizeAmount(NormalizeAmount(amount, decimals), decimals)
	return truncated
}

// pow10 returns 10^n, or 0 if it overflows a uint64.
func pow10(n uint8) uint64 {
	if n > 19 {
		return 0
	}
	result := uint64(1)
	for i := uint8(0); i < n; i++ {
		result *= 10
	}
	return result
}
