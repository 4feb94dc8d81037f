package types_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

func TestNormalizeAmount(t *testing.T) {
	require.Equal(t, uint64(123), types.NormalizeAmount(123, 6))
	require.Equal(t, uint64(123), types.NormalizeAmount(123, 8))
	require.Equal(t, uint64(12), types.NormalizeAmount(129, 9))
	require.Equal(t, uint64(1), types.NormalizeAmount(19_999_999_999, 18))

	// 10^20 and beyond exceed every uint64 amount
	require.Equal(t, uint64(0), types.NormalizeAmount(math.MaxUint64, 28))
	require.Equal(t, uint64(0), types.NormalizeAmount(math.MaxUint64, 255))
}

func TestDenormalizeAmount(t *testing.T) {
	amount, ok := types.DenormalizeAmount(12, 9)
	require.True(t, ok)
	require.Equal(t, uint64(120), amount)

	amount, ok = types.DenormalizeAmount(12, 6)
	require.True(t, ok)
	require.Equal(t, uint64(12), amount)

	_, ok = types.DenormalizeAmount(math.MaxUint64, 9)
	require.False(t, ok)
}

func TestTruncateAmount(t *testing.T) {
	require.Equal(t, uint64(1_234_567_890), types.TruncateAmount(1_234_567_899, 9))
	require.Equal(t, uint64(0), types.TruncateAmount(9, 9))
	require.Equal(t, uint64(9), types.TruncateAmount(9, 8))
	require.Equal(t, uint64(0), types.TruncateAmount(math.MaxUint64, 28))
	require.Equal(t, uint64(0), types.TruncateAmount(math.MaxUint64, 255))
}
