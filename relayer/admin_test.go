package relayer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/ledger"
	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/store"
	testutils "github.com/strangelove-ventures/token-bridge-relayer/test_util"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

func TestInitialize(t *testing.T) {
	f := testutils.Setup(t)

	cfg, err := f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, f.Owner, cfg.Sender.Owner)
	require.Equal(t, f.Owner, cfg.Redeemer.Owner)
	require.Equal(t, f.Owner, cfg.Owner.Owner)
	require.Equal(t, f.Assistant, cfg.Owner.Assistant)
	require.Equal(t, f.FeeRecipient, cfg.Redeemer.FeeRecipient)
	require.Nil(t, cfg.Owner.PendingOwner)
	require.False(t, cfg.Sender.Paused)
	require.Equal(t, types.InitialPrecision, cfg.Sender.RelayerFeePrecision)
	require.Equal(t, types.InitialPrecision, cfg.Redeemer.SwapRatePrecision)
	require.False(t, cfg.Sender.TokenBridge.AuthoritySigner.IsZero())
	require.False(t, cfg.Redeemer.TokenBridge.MintAuthority.IsZero())

	err = f.Program.Initialize(f.Ctx, f.Owner, f.FeeRecipient, f.Assistant)
	require.ErrorIs(t, err, types.ErrAlreadyInitialized)
}

func TestInitializeRejectsZeroKeys(t *testing.T) {
	f := testutils.Setup(t)
	p := relayer.NewProgram(f.Ledger, solana.NewWallet().PublicKey(), testutils.Logger)

	err := p.Initialize(f.Ctx, f.Owner, solana.PublicKey{}, f.Assistant)
	require.ErrorIs(t, err, types.ErrInvalidPublicKey)

	err = p.Initialize(f.Ctx, f.Owner, f.FeeRecipient, solana.PublicKey{})
	require.ErrorIs(t, err, types.ErrInvalidPublicKey)

	_, err = p.Config(f.Ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)
}

func TestRegisterForeignContract(t *testing.T) {
	f := testutils.Setup(t)
	address := types.Address{0: 0x11, 31: 0x22}

	// chain 1 is the host chain
	err := f.Program.RegisterForeignContract(f.Ctx, f.Owner, types.ChainIDSolana, address)
	require.ErrorIs(t, err, types.ErrInvalidForeignContract)

	err = f.Program.RegisterForeignContract(f.Ctx, f.Owner, types.ChainIDUnset, address)
	require.ErrorIs(t, err, types.ErrInvalidForeignContract)

	err = f.Program.RegisterForeignContract(f.Ctx, f.Owner, types.ChainIDBSC, types.Address{})
	require.ErrorIs(t, err, types.ErrInvalidForeignContract)

	err = f.Program.RegisterForeignContract(f.Ctx, f.Assistant, types.ChainIDBSC, address)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	err = f.Program.RegisterForeignContract(f.Ctx, f.Owner, types.ChainIDBSC, address)
	require.NoError(t, err)

	contract, err := f.Program.ForeignContract(f.Ctx, types.ChainIDBSC)
	require.NoError(t, err)
	require.Equal(t, types.ChainIDBSC, contract.Chain)
	require.Equal(t, address, contract.Address)

	// registering again replaces the address
	replacement := types.Address{31: 0x33}
	require.NoError(t, f.Program.RegisterForeignContract(f.Ctx, f.Owner, types.ChainIDBSC, replacement))
	contract, err = f.Program.ForeignContract(f.Ctx, types.ChainIDBSC)
	require.NoError(t, err)
	require.Equal(t, replacement, contract.Address)
}

func TestRegisterToken(t *testing.T) {
	f := testutils.Setup(t)

	// ARRANGE: a mint the fixture has not registered
	mint := solana.NewWallet().PublicKey()
	require.NoError(t, f.Ledger.AddMint(f.Ctx, types.MintInfo{Address: mint, Decimals: 9}))

	// ACT/ASSERT
	err := f.Program.RegisterToken(f.Ctx, f.Assistant, mint, 1, 0)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	err = f.Program.RegisterToken(f.Ctx, f.Owner, solana.NewWallet().PublicKey(), 1, 0)
	require.ErrorIs(t, err, types.ErrAccountNotFound)

	err = f.Program.RegisterToken(f.Ctx, f.Owner, mint, 0, 0)
	require.ErrorIs(t, err, types.ErrZeroSwapRate)

	token, err := f.Program.RegisteredToken(f.Ctx, mint)
	require.NoError(t, err)
	require.Equal(t, types.RegisteredToken{}, token)

	require.NoError(t, f.Program.RegisterToken(f.Ctx, f.Owner, mint, 42, 7))
	token, err = f.Program.RegisteredToken(f.Ctx, mint)
	require.NoError(t, err)
	require.Equal(t, types.RegisteredToken{IsRegistered: true, SwapRate: 42, MaxNativeSwapAmount: 7}, token)

	err = f.Program.RegisterToken(f.Ctx, f.Owner, mint, 42, 7)
	require.ErrorIs(t, err, types.ErrTokenAlreadyRegistered)
}

func TestDeregisterToken(t *testing.T) {
	f := testutils.Setup(t)

	err := f.Program.DeregisterToken(f.Ctx, f.Assistant, f.TokenMint)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.NoError(t, f.Program.DeregisterToken(f.Ctx, f.Owner, f.TokenMint))

	// a deregistered token is fully reset
	token, err := f.Program.RegisteredToken(f.Ctx, f.TokenMint)
	require.NoError(t, err)
	require.False(t, token.IsRegistered)
	require.Zero(t, token.SwapRate)
	require.Zero(t, token.MaxNativeSwapAmount)

	err = f.Program.DeregisterToken(f.Ctx, f.Owner, f.TokenMint)
	require.ErrorIs(t, err, types.ErrTokenNotRegistered)

	err = f.Program.UpdateSwapRate(f.Ctx, f.Owner, f.TokenMint, 5)
	require.ErrorIs(t, err, types.ErrTokenNotRegistered)

	// and can be registered again
	require.NoError(t, f.Program.RegisterToken(f.Ctx, f.Owner, f.TokenMint, 5, 0))
}

func TestNativeMintNeverSwaps(t *testing.T) {
	f := testutils.Setup(t)

	err := f.Program.UpdateMaxNativeSwapAmount(f.Ctx, f.Owner, solana.WrappedSol, 1)
	require.ErrorIs(t, err, types.ErrSwapsNotAllowedForNativeMint)

	require.NoError(t, f.Program.UpdateMaxNativeSwapAmount(f.Ctx, f.Owner, solana.WrappedSol, 0))

	require.NoError(t, f.Program.DeregisterToken(f.Ctx, f.Owner, solana.WrappedSol))
	err = f.Program.RegisterToken(f.Ctx, f.Owner, solana.WrappedSol, testutils.NativeSwapRate, 1)
	require.ErrorIs(t, err, types.ErrSwapsNotAllowedForNativeMint)

	token, err := f.Program.RegisteredToken(f.Ctx, solana.WrappedSol)
	require.NoError(t, err)
	require.Zero(t, token.MaxNativeSwapAmount)
}

func TestUpdateMaxNativeSwapAmount(t *testing.T) {
	f := testutils.Setup(t)

	err := f.Program.UpdateMaxNativeSwapAmount(f.Ctx, f.Assistant, f.TokenMint, 5)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.NoError(t, f.Program.UpdateMaxNativeSwapAmount(f.Ctx, f.Owner, f.TokenMint, 5))
	token, err := f.Program.RegisteredToken(f.Ctx, f.TokenMint)
	require.NoError(t, err)
	require.Equal(t, uint64(5), token.MaxNativeSwapAmount)
	require.Equal(t, testutils.TokenSwapRate, token.SwapRate)
}

func TestUpdateRelayerFee(t *testing.T) {
	f := testutils.Setup(t)

	// the assistant may update fees
	require.NoError(t, f.Program.UpdateRelayerFee(f.Ctx, f.Assistant, testutils.ForeignChain, 7))
	fee, err := f.Program.RelayerFee(f.Ctx, testutils.ForeignChain)
	require.NoError(t, err)
	require.Equal(t, uint64(7), fee.Fee)

	err = f.Program.UpdateRelayerFee(f.Ctx, f.User, testutils.ForeignChain, 8)
	require.ErrorIs(t, err, types.ErrOwnerOrAssistantOnly)

	err = f.Program.UpdateRelayerFee(f.Ctx, f.Owner, types.ChainIDPolygon, 8)
	require.ErrorIs(t, err, types.ErrForeignContractNotRegistered)

	_, err = f.Program.RelayerFee(f.Ctx, types.ChainIDPolygon)
	require.ErrorIs(t, err, types.ErrRelayerFeeNotSet)
}

func TestUpdatePrecisions(t *testing.T) {
	f := testutils.Setup(t)

	err := f.Program.UpdateRelayerFeePrecision(f.Ctx, f.Owner, 0)
	require.ErrorIs(t, err, types.ErrInvalidPrecision)
	err = f.Program.UpdateSwapRatePrecision(f.Ctx, f.Owner, 0)
	require.ErrorIs(t, err, types.ErrInvalidPrecision)
	err = f.Program.UpdateSwapRatePrecision(f.Ctx, f.Assistant, 10)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.NoError(t, f.Program.UpdateRelayerFeePrecision(f.Ctx, f.Owner, 1_000))
	require.NoError(t, f.Program.UpdateSwapRatePrecision(f.Ctx, f.Owner, 2_000))

	// both configs move together
	cfg, err := f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(1_000), cfg.Sender.RelayerFeePrecision)
	require.Equal(t, uint32(1_000), cfg.Redeemer.RelayerFeePrecision)
	require.Equal(t, uint32(2_000), cfg.Sender.SwapRatePrecision)
	require.Equal(t, uint32(2_000), cfg.Redeemer.SwapRatePrecision)
}

func TestUpdateSwapRate(t *testing.T) {
	f := testutils.Setup(t)

	require.NoError(t, f.Program.UpdateSwapRate(f.Ctx, f.Assistant, f.TokenMint, 200_000_000))
	token, err := f.Program.RegisteredToken(f.Ctx, f.TokenMint)
	require.NoError(t, err)
	require.Equal(t, uint64(200_000_000), token.SwapRate)

	err = f.Program.UpdateSwapRate(f.Ctx, f.Owner, f.TokenMint, 0)
	require.ErrorIs(t, err, types.ErrZeroSwapRate)

	err = f.Program.UpdateSwapRate(f.Ctx, f.User, f.TokenMint, 1)
	require.ErrorIs(t, err, types.ErrOwnerOrAssistantOnly)
}

func TestUpdateFeeRecipientAndAssistant(t *testing.T) {
	f := testutils.Setup(t)
	next := solana.NewWallet().PublicKey()

	err := f.Program.UpdateFeeRecipient(f.Ctx, f.Owner, solana.PublicKey{})
	require.ErrorIs(t, err, types.ErrInvalidPublicKey)
	err = f.Program.UpdateAssistant(f.Ctx, f.Assistant, next)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.NoError(t, f.Program.UpdateFeeRecipient(f.Ctx, f.Owner, next))
	require.NoError(t, f.Program.UpdateAssistant(f.Ctx, f.Owner, next))

	cfg, err := f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, next, cfg.Redeemer.FeeRecipient)
	require.Equal(t, next, cfg.Owner.Assistant)

	// the old assistant lost its rights
	err = f.Program.UpdateSwapRate(f.Ctx, f.Assistant, f.TokenMint, 1)
	require.ErrorIs(t, err, types.ErrOwnerOrAssistantOnly)
}

func TestSetPauseForTransfers(t *testing.T) {
	f := testutils.Setup(t)

	err := f.Program.SetPauseForTransfers(f.Ctx, f.Assistant, true)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.NoError(t, f.Program.SetPauseForTransfers(f.Ctx, f.Owner, true))
	require.Equal(t, float64(1), testutil.ToFloat64(f.Metrics.Paused))

	cfg, err := f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.True(t, cfg.Sender.Paused)

	require.NoError(t, f.Program.SetPauseForTransfers(f.Ctx, f.Owner, false))
	require.Equal(t, float64(0), testutil.ToFloat64(f.Metrics.Paused))
}

func TestInstructionMetrics(t *testing.T) {
	f := testutils.Setup(t)

	before := testutil.ToFloat64(f.Metrics.Instructions.WithLabelValues("update_swap_rate", "failure"))
	err := f.Program.UpdateSwapRate(f.Ctx, f.User, f.TokenMint, 1)
	require.Error(t, err)
	require.Equal(t, before+1, testutil.ToFloat64(f.Metrics.Instructions.WithLabelValues("update_swap_rate", "failure")))

	// setup registered three tokens
	require.Equal(t, float64(3), testutil.ToFloat64(f.Metrics.Instructions.WithLabelValues("register_token", "success")))
}

var errSaveFailed = errors.New("save failed")

// failingStore rejects saves while fail is set.
type failingStore struct {
	*store.Memory
	fail bool
}

func (s *failingStore) Save(ctx context.Context, data []byte, expectedVersion uint64) (uint64, error) {
	if s.fail {
		return 0, errSaveFailed
	}
	return s.Memory.Save(ctx, data, expectedVersion)
}

func TestInitializeSetsPausedGaugeAfterCommit(t *testing.T) {
	ctx := context.Background()
	snapshots := &failingStore{Memory: store.NewMemory()}
	l, err := ledger.New(ctx, testutils.Logger, snapshots, ledger.Genesis{})
	require.NoError(t, err)

	metrics := relayer.NewPromMetrics(prometheus.NewRegistry())
	metrics.SetPaused(true)
	p := relayer.NewProgram(l, solana.NewWallet().PublicKey(), testutils.Logger, relayer.WithMetrics(metrics))

	owner := solana.NewWallet().PublicKey()
	feeRecipient := solana.NewWallet().PublicKey()
	assistant := solana.NewWallet().PublicKey()

	snapshots.fail = true
	err = p.Initialize(ctx, owner, feeRecipient, assistant)
	require.ErrorIs(t, err, errSaveFailed)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Paused))

	snapshots.fail = false
	require.NoError(t, p.Initialize(ctx, owner, feeRecipient, assistant))
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.Paused))
}
