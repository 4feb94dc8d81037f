// Package fees converts USD-denominated relayer fees and swap rates into token
// and native-asset amounts. All arithmetic is done on 256-bit integers and any
// overflow, division by zero, or result wider than 64 bits is an error.
package fees

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// maxExp10 is the largest power of ten that fits in 256 bits.
const maxExp10 = 77

// pow10 returns 10^n, or nil if it does not fit in 256 bits.
func pow10(n uint8) *uint256.Int {
	if n > maxExp10 {
		return nil
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// mulDiv returns floor(product(nums) / product(dens)).
func mulDiv(nums []*uint256.Int, dens []*uint256.Int) (uint64, error) {
	num := uint256.NewInt(1)
	for _, n := range nums {
		if n == nil {
			return 0, types.ErrArithmeticOverflow
		}
		if _, overflow := num.MulOverflow(num, n); overflow {
			return 0, types.ErrArithmeticOverflow
		}
	}
	den := uint256.NewInt(1)
	for _, d := range dens {
		if d == nil {
			return 0, types.ErrArithmeticOverflow
		}
		if _, overflow := den.MulOverflow(den, d); overflow {
			return 0, types.ErrArithmeticOverflow
		}
	}
	if den.IsZero() {
		return 0, fmt.Errorf("%w: division by zero", types.ErrArithmeticOverflow)
	}
	result := new(uint256.Int).Div(num, den)
	if !result.IsUint64() {
		return 0, fmt.Errorf("%w: result exceeds 64 bits", types.ErrArithmeticOverflow)
	}
	return result.Uint64(), nil
}

// TokenFee converts a USD relayer fee (scaled by relayerFeePrecision) into
// units of a token with the given decimals and USD swap rate (scaled by
// swapRatePrecision).
func TokenFee(
	relayerFee uint64,
	decimals uint8,
	swapRate uint64,
	swapRatePrecision uint32,
	relayerFeePrecision uint32,
) (uint64, error) {
	fee, err := mulDiv(
		[]*uint256.Int{uint256.NewInt(relayerFee), pow10(decimals), uint256.NewInt(uint64(swapRatePrecision))},
		[]*uint256.Int{uint256.NewInt(swapRate), uint256.NewInt(uint64(relayerFeePrecision))},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrFeeCalculation, err)
	}
	return fee, nil
}

// NativeSwapRate is the price of the native asset in units of the token,
// scaled by swapRatePrecision.
func NativeSwapRate(nativeRate, tokenRate uint64, swapRatePrecision uint32) (uint64, error) {
	if nativeRate == 0 {
		return 0, fmt.Errorf("%w: native asset has no swap rate", types.ErrInvalidSwapCalculation)
	}
	rate, err := mulDiv(
		[]*uint256.Int{uint256.NewInt(uint64(swapRatePrecision)), uint256.NewInt(nativeRate)},
		[]*uint256.Int{uint256.NewInt(tokenRate)},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrInvalidSwapCalculation, err)
	}
	if rate == 0 {
		return 0, fmt.Errorf("%w: native swap rate rounds to zero", types.ErrInvalidSwapCalculation)
	}
	return rate, nil
}

// MaxSwapAmountIn is the token amount that buys maxNativeSwapAmount of the
// native asset.
func MaxSwapAmountIn(
	decimals uint8,
	nativeSwapRate uint64,
	swapRatePrecision uint32,
	maxNativeSwapAmount uint64,
	nativeDecimals uint8,
) (uint64, error) {
	return mulDiv(
		[]*uint256.Int{uint256.NewInt(maxNativeSwapAmount), uint256.NewInt(nativeSwapRate), pow10(decimals)},
		[]*uint256.Int{uint256.NewInt(uint64(swapRatePrecision)), pow10(nativeDecimals)},
	)
}

// NativeAmountOut is the native asset bought with toNativeAmount of the token.
func NativeAmountOut(
	decimals uint8,
	toNativeAmount uint64,
	nativeSwapRate uint64,
	swapRatePrecision uint32,
	nativeDecimals uint8,
) (uint64, error) {
	return mulDiv(
		[]*uint256.Int{uint256.NewInt(toNativeAmount), uint256.NewInt(uint64(swapRatePrecision)), pow10(nativeDecimals)},
		[]*uint256.Int{uint256.NewInt(nativeSwapRate), pow10(decimals)},
	)
}

// Swap describes one native swap split.
type Swap struct {
	TokenAmountIn   uint64 `json:"token_amount_in"`
	NativeAmountOut uint64 `json:"native_amount_out"`
	// Clamped is set when the request exceeded the token's native swap limit.
	Clamped bool `json:"clamped"`
}

// NativeSwapSplit converts a requested token amount into the native asset.
// When the native amount would exceed maxNativeSwapAmount, the output is
// clamped to the maximum and only the tokens needed to buy it are consumed.
func NativeSwapSplit(
	decimals uint8,
	toNativeAmount uint64,
	tokenRate uint64,
	nativeRate uint64,
	swapRatePrecision uint32,
	maxNativeSwapAmount uint64,
	nativeDecimals uint8,
) (Swap, error) {
	if toNativeAmount == 0 {
		return Swap{}, nil
	}

	nativeSwapRate, err := NativeSwapRate(nativeRate, tokenRate, swapRatePrecision)
	if err != nil {
		return Swap{}, err
	}

	maxIn, err := MaxSwapAmountIn(decimals, nativeSwapRate, swapRatePrecision, maxNativeSwapAmount, nativeDecimals)
	if err != nil {
		return Swap{}, fmt.Errorf("%w: %w", types.ErrInvalidSwapCalculation, err)
	}
	if toNativeAmount > maxIn {
		return Swap{TokenAmountIn: maxIn, NativeAmountOut: maxNativeSwapAmount, Clamped: true}, nil
	}

	out, err := NativeAmountOut(decimals, toNativeAmount, nativeSwapRate, swapRatePrecision, nativeDecimals)
	if err != nil {
		return Swap{}, fmt.Errorf("%w: %w", types.ErrInvalidSwapCalculation, err)
	}
	return Swap{TokenAmountIn: toNativeAmount, NativeAmountOut: out}, nil
}
