package relayer_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	testutils "github.com/strangelove-ventures/token-bridge-relayer/test_util"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

var recipient = types.Address{0: 0x01, 31: 0x44}

func sendRequest(f *testutils.Fixture, amount, toNative uint64) relayer.SendRequest {
	return relayer.SendRequest{
		Payer:               f.User,
		Mint:                f.TokenMint,
		Amount:              amount,
		ToNativeTokenAmount: toNative,
		RecipientChain:      testutils.ForeignChain,
		RecipientAddress:    recipient,
		Nonce:               7,
	}
}

func TestSendNativeTokens(t *testing.T) {
	f := testutils.Setup(t)

	// ARRANGE
	before := f.TokenBalance(t, f.User, f.TokenMint)

	// ACT: 100 tokens, 10 of them to be swapped for native asset
	res, err := f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 100_000_000, 10_000_000))
	require.NoError(t, err)

	// ASSERT
	require.Equal(t, uint64(0), res.Sequence)
	require.Equal(t, uint64(100_000_000), res.Amount)
	// $0.05 of a $1 token with 6 decimals
	require.Equal(t, uint64(50_000), res.RelayerFee)
	require.Equal(t, types.TransferWithRelay{
		TargetRelayerFee:    50_000,
		ToNativeTokenAmount: 10_000_000,
		Recipient:           recipient,
	}, res.Payload)
	require.Equal(t, types.BridgedMessageAddress(f.ProgramID, 0), res.MessageAddress)

	require.Equal(t, before-100_000_000, f.TokenBalance(t, f.User, f.TokenMint))

	msg, err := f.Program.Message(f.Ctx, res.Sequence)
	require.NoError(t, err)
	require.Equal(t, res.MessageAddress, msg.Address)
	require.Equal(t, uint32(7), msg.Nonce)
	require.Equal(t, res.MessageHash, msg.Transfer.Hash())
	// the bridge transfer goes to the remote relayer, the payload names the recipient
	require.Equal(t, f.ForeignContract, msg.Transfer.To)
	require.Equal(t, testutils.ForeignChain, msg.Transfer.ToChain)
	require.Equal(t, types.AddressFromPublicKey(types.SenderConfigAddress(f.ProgramID)), msg.Transfer.FromAddress)
	require.Equal(t, types.HostChainID, msg.Transfer.TokenChain)
	require.Equal(t, uint64(100_000_000), msg.Transfer.Amount)

	relay, err := msg.Transfer.Relay()
	require.NoError(t, err)
	require.Equal(t, res.Payload, *relay)

	// the transfer is tracked and counted
	state, ok := f.Program.Transfer(res.MessageHash.Hex())
	require.True(t, ok)
	require.Equal(t, types.Sent, state.Status)
	require.Equal(t, types.Send, state.Direction)
	require.Equal(t, float64(100_000_000),
		testutil.ToFloat64(f.Metrics.SentAmount.WithLabelValues(f.TokenMint.String(), testutils.ForeignChain.String())))

	// the next send gets the next sequence and its custody account is fresh
	res, err = f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 1_000_000, 0))
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Sequence)
}

func TestSendRequiresAmountAboveDeductions(t *testing.T) {
	f := testutils.Setup(t)
	before := f.TokenBalance(t, f.User, f.TokenMint)

	// amount == fee + to-native is not enough
	_, err := f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 10_050_000, 10_000_000))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, types.KindValidation, types.KindOf(err))
	require.Equal(t, before, f.TokenBalance(t, f.User, f.TokenMint))

	_, err = f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 10_050_001, 10_000_000))
	require.NoError(t, err)
}

func TestSendTruncatesDust(t *testing.T) {
	f := testutils.Setup(t)
	req := sendRequest(f, 1_000_000_009, 0)
	req.Mint = solana.WrappedSol

	res, err := f.Program.SendNativeTokensWithPayload(f.Ctx, req)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), res.Amount)
	// $0.05 at $150 with 9 decimals, carried at 8
	require.Equal(t, uint64(333_333), res.RelayerFee)
	require.Equal(t, uint64(33_333), res.Payload.TargetRelayerFee)
	require.Equal(t, uint64(4_000_000_000), f.TokenBalance(t, f.User, solana.WrappedSol))

	// nothing survives truncation
	req.Amount = 9
	_, err = f.Program.SendNativeTokensWithPayload(f.Ctx, req)
	require.ErrorIs(t, err, types.ErrZeroBridgeAmount)

	// a to-native amount made entirely of dust
	req.Amount = 1_000_000_000
	req.ToNativeTokenAmount = 9
	_, err = f.Program.SendNativeTokensWithPayload(f.Ctx, req)
	require.ErrorIs(t, err, types.ErrInvalidToNativeAmount)
}

func TestSendWrapNative(t *testing.T) {
	f := testutils.Setup(t)
	lamports := f.Lamports(t, f.User)
	tokens := f.TokenBalance(t, f.User, solana.WrappedSol)

	req := sendRequest(f, 1_000_000_005, 0)
	req.Mint = solana.WrappedSol
	req.WrapNative = true

	res, err := f.Program.SendNativeTokensWithPayload(f.Ctx, req)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), res.Amount)

	// paid from the wallet, not the token account
	require.Equal(t, lamports-1_000_000_000, f.Lamports(t, f.User))
	require.Equal(t, tokens, f.TokenBalance(t, f.User, solana.WrappedSol))

	// only the native mint can be wrapped
	req = sendRequest(f, 1_000_000, 0)
	req.WrapNative = true
	_, err = f.Program.SendNativeTokensWithPayload(f.Ctx, req)
	require.ErrorIs(t, err, types.ErrNativeMintRequired)
}

func TestSendWrappedTokens(t *testing.T) {
	f := testutils.Setup(t)
	require.NoError(t, f.Ledger.MintTo(f.Ctx, f.WrappedMint, f.User, 5_000_000_000))

	req := sendRequest(f, 1_000_000_000, 0)
	req.Mint = f.WrappedMint
	res, err := f.Program.SendWrappedTokensWithPayload(f.Ctx, req)
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000), res.RelayerFee)
	require.Equal(t, uint64(4_000_000_000), f.TokenBalance(t, f.User, f.WrappedMint))

	msg, err := f.Program.Message(f.Ctx, res.Sequence)
	require.NoError(t, err)
	require.Equal(t, testutils.ForeignChain, msg.Transfer.TokenChain)
	require.Equal(t, f.WrappedOrigin, msg.Transfer.TokenAddress)
}

func TestSendRollsBackOnBridgeFailure(t *testing.T) {
	f := testutils.Setup(t)
	before := f.TokenBalance(t, f.User, f.TokenMint)

	// the bridge refuses to burn a host-native mint
	_, err := f.Program.SendWrappedTokensWithPayload(f.Ctx, sendRequest(f, 1_000_000, 0))
	require.ErrorIs(t, err, types.ErrInvalidMint)

	// the payer was debited and the custody account created before the bridge
	// failed, none of which was kept
	require.Equal(t, before, f.TokenBalance(t, f.User, f.TokenMint))
	_, err = f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 1_000_000, 0))
	require.NoError(t, err)
}

func TestSendPreconditions(t *testing.T) {
	f := testutils.Setup(t)

	unregistered := solana.NewWallet().PublicKey()
	require.NoError(t, f.Ledger.AddMint(f.Ctx, types.MintInfo{Address: unregistered, Decimals: 6}))

	tests := []struct {
		name string
		edit func(*relayer.SendRequest)
		err  error
	}{
		{"unregistered token", func(r *relayer.SendRequest) { r.Mint = unregistered }, types.ErrTokenNotRegistered},
		{"host chain recipient", func(r *relayer.SendRequest) { r.RecipientChain = types.HostChainID }, types.ErrInvalidRecipient},
		{"zero recipient", func(r *relayer.SendRequest) { r.RecipientAddress = types.Address{} }, types.ErrInvalidRecipient},
		{"no foreign contract", func(r *relayer.SendRequest) { r.RecipientChain = types.ChainIDPolygon }, types.ErrForeignContractNotRegistered},
		{"more than the balance", func(r *relayer.SendRequest) { r.Amount = 2_000_000_000 }, types.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sendRequest(f, 1_000_000, 0)
			tt.edit(&req)
			_, err := f.Program.SendNativeTokensWithPayload(f.Ctx, req)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSendWhilePaused(t *testing.T) {
	f := testutils.Setup(t)
	require.NoError(t, f.Program.SetPauseForTransfers(f.Ctx, f.Owner, true))

	_, err := f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 1_000_000, 0))
	require.ErrorIs(t, err, types.ErrOutboundTransfersPaused)
	require.Equal(t, types.KindState, types.KindOf(err))

	require.NoError(t, f.Program.SetPauseForTransfers(f.Ctx, f.Owner, false))
	_, err = f.Program.SendNativeTokensWithPayload(f.Ctx, sendRequest(f, 1_000_000, 0))
	require.NoError(t, err)
}

func TestSendMintWithTooManyDecimals(t *testing.T) {
	for _, decimals := range []uint8{28, 255} {
		f := testutils.Setup(t)

		// ARRANGE
		mint := solana.NewWallet().PublicKey()
		require.NoError(t, f.Ledger.AddMint(f.Ctx, types.MintInfo{Address: mint, Decimals: decimals}))
		require.NoError(t, f.Program.RegisterToken(f.Ctx, f.Owner, mint, testutils.TokenSwapRate, 0))
		require.NoError(t, f.Ledger.MintTo(f.Ctx, mint, f.User, 1_000_000_000_000_000_000))

		req := sendRequest(f, 1_000_000_000_000_000_000, 0)
		req.Mint = mint

		// ACT
		_, err := f.Program.SendNativeTokensWithPayload(f.Ctx, req)

		// ASSERT: nothing survives normalization to the bridge's decimals
		require.ErrorIs(t, err, types.ErrZeroBridgeAmount, "decimals %d", decimals)
		require.Equal(t, uint64(1_000_000_000_000_000_000), f.TokenBalance(t, f.User, mint))
	}
}
