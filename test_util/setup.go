package testutil

import (
	"context"
	"os"
	"testing"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/ledger"
	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/store"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

var Logger log.Logger
var EnvFile = os.ExpandEnv("$GOPATH/src/github.com/strangelove-ventures/token-bridge-relayer/.env")

func init() {
	// define logger
	Logger = log.NewLogger(os.Stdout, log.LevelOption(zerolog.ErrorLevel))

	// the env file is optional, it only enables tests against external services
	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		Logger.Error("error loading env file", "err", err)
	}
}

const (
	ForeignChain = types.ChainIDEthereum

	// $1 tokens, $150 native asset, $0.05 relay fee
	TokenSwapRate  = uint64(100_000_000)
	NativeSwapRate = uint64(15_000_000_000)
	RelayerFeeUSD  = uint64(5_000_000)

	MaxNativeSwapAmount = uint64(1_000_000_000)

	TokenDecimals   = uint8(6)
	WrappedDecimals = uint8(8)
)

// Fixture is an initialized program on a fresh devnet ledger. TokenMint is
// native to the host chain and WrappedMint is bridged in from ForeignChain;
// both, and the native mint, are registered.
type Fixture struct {
	Ctx       context.Context
	Ledger    *ledger.Ledger
	Program   *relayer.Program
	Registry  *prometheus.Registry
	Metrics   *relayer.PromMetrics
	Transfers *types.StateMap

	ProgramID    solana.PublicKey
	Owner        solana.PublicKey
	Assistant    solana.PublicKey
	FeeRecipient solana.PublicKey
	Relayer      solana.PublicKey
	User         solana.PublicKey

	TokenMint       solana.PublicKey
	WrappedMint     solana.PublicKey
	WrappedOrigin   types.Address
	ForeignContract types.Address

	sequence uint64
}

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

// Setup creates a Fixture backed by an in-memory snapshot store.
func Setup(t *testing.T) *Fixture {
	t.Helper()
	return SetupWithStore(t, store.NewMemory())
}

func SetupWithStore(t *testing.T, snapshots store.Snapshots) *Fixture {
	t.Helper()

	f := &Fixture{
		Ctx:          context.Background(),
		Registry:     prometheus.NewRegistry(),
		Transfers:    types.NewStateMap(),
		ProgramID:    newKey(),
		Owner:        newKey(),
		Assistant:    newKey(),
		FeeRecipient: newKey(),
		Relayer:      newKey(),
		User:         newKey(),
		TokenMint:    newKey(),
		WrappedMint:  newKey(),
	}
	f.WrappedOrigin[31] = 0xaa
	f.ForeignContract[31] = 0xbb

	genesis := ledger.Genesis{
		ForeignEndpoints: map[types.ChainID]solana.PublicKey{ForeignChain: newKey()},
		Mints: []types.MintInfo{
			{Address: f.TokenMint, Decimals: TokenDecimals},
			{Address: f.WrappedMint, Decimals: WrappedDecimals, TokenChain: ForeignChain, TokenAddress: f.WrappedOrigin},
		},
		Lamports: map[solana.PublicKey]uint64{
			f.Relayer: 100_000_000_000,
			f.User:    10_000_000_000,
		},
		Tokens: []ledger.TokenBalance{
			{Owner: f.User, Mint: f.TokenMint, Amount: 1_000_000_000},
			{Owner: f.User, Mint: solana.WrappedSol, Amount: 5_000_000_000},
		},
	}

	var err error
	f.Ledger, err = ledger.New(f.Ctx, Logger, snapshots, genesis)
	require.NoError(t, err)

	// tokens that left the host chain earlier, so inbound native transfers
	// have something to release
	require.NoError(t, f.Ledger.FundCustody(f.Ctx, f.TokenMint, 1_000_000_000_000))
	require.NoError(t, f.Ledger.FundCustody(f.Ctx, solana.WrappedSol, 100_000_000_000))

	f.Metrics = relayer.NewPromMetrics(f.Registry)
	f.Program = relayer.NewProgram(f.Ledger, f.ProgramID, Logger,
		relayer.WithMetrics(f.Metrics),
		relayer.WithTransfers(f.Transfers),
	)

	p := f.Program
	require.NoError(t, p.Initialize(f.Ctx, f.Owner, f.FeeRecipient, f.Assistant))
	require.NoError(t, p.RegisterForeignContract(f.Ctx, f.Owner, ForeignChain, f.ForeignContract))
	require.NoError(t, p.UpdateRelayerFee(f.Ctx, f.Owner, ForeignChain, RelayerFeeUSD))
	require.NoError(t, p.RegisterToken(f.Ctx, f.Owner, f.TokenMint, TokenSwapRate, MaxNativeSwapAmount))
	require.NoError(t, p.RegisterToken(f.Ctx, f.Owner, f.WrappedMint, TokenSwapRate, MaxNativeSwapAmount))
	require.NoError(t, p.RegisterToken(f.Ctx, f.Owner, solana.WrappedSol, NativeSwapRate, 0))

	return f
}

// Inbound builds a transfer from the registered foreign contract to this
// program's redeemer. Amounts are in bridge units.
func (f *Fixture) Inbound(tokenChain types.ChainID, tokenAddress types.Address, amount uint64, relay types.TransferWithRelay) types.AttestedTransfer {
	f.sequence++
	return types.AttestedTransfer{
		EmitterChain:   ForeignChain,
		EmitterAddress: types.Address{31: 0x01},
		Sequence:       f.sequence,
		Amount:         amount,
		TokenAddress:   tokenAddress,
		TokenChain:     tokenChain,
		To:             types.AddressFromPublicKey(types.RedeemerConfigAddress(f.ProgramID)),
		ToChain:        types.HostChainID,
		FromAddress:    f.ForeignContract,
		Payload:        relay.Encode(),
	}
}

// InboundToken is an inbound transfer of TokenMint.
func (f *Fixture) InboundToken(amount uint64, relay types.TransferWithRelay) types.AttestedTransfer {
	return f.Inbound(types.HostChainID, types.AddressFromPublicKey(f.TokenMint), amount, relay)
}

// InboundWrapped is an inbound transfer of the token behind WrappedMint.
func (f *Fixture) InboundWrapped(amount uint64, relay types.TransferWithRelay) types.AttestedTransfer {
	return f.Inbound(ForeignChain, f.WrappedOrigin, amount, relay)
}

// Attest posts transfer to the bridge and returns its message hash.
func (f *Fixture) Attest(t *testing.T, transfer types.AttestedTransfer) common.Hash {
	t.Helper()
	hash, err := f.Ledger.PostAttestation(f.Ctx, transfer)
	require.NoError(t, err)
	return hash
}

// TokenBalance is owner's associated token account balance, 0 if it has none.
func (f *Fixture) TokenBalance(t *testing.T, owner, mint solana.PublicKey) uint64 {
	t.Helper()
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	var amount uint64
	require.NoError(t, f.Ledger.View(f.Ctx, func(tx types.Tx) error {
		if account, err := tx.Token().Account(ata); err == nil {
			amount = account.Amount
		}
		return nil
	}))
	return amount
}

// Lamports is the native balance of a wallet.
func (f *Fixture) Lamports(t *testing.T, addr solana.PublicKey) uint64 {
	t.Helper()
	var lamports uint64
	require.NoError(t, f.Ledger.View(f.Ctx, func(tx types.Tx) error {
		lamports = tx.System().Balance(addr)
		return nil
	}))
	return lamports
}
