package relayer_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	testutils "github.com/strangelove-ventures/token-bridge-relayer/test_util"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

func TestOwnershipTransferConfirm(t *testing.T) {
	f := testutils.Setup(t)
	newOwner := solana.NewWallet().PublicKey()

	require.NoError(t, f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Owner, newOwner))

	cfg, err := f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg.Owner.PendingOwner)
	require.Equal(t, newOwner, *cfg.Owner.PendingOwner)
	require.Equal(t, f.Owner, cfg.Owner.Owner)

	// only the nominee can confirm
	err = f.Program.ConfirmOwnershipTransferRequest(f.Ctx, f.Owner)
	require.ErrorIs(t, err, types.ErrNotPendingOwner)

	require.NoError(t, f.Program.ConfirmOwnershipTransferRequest(f.Ctx, newOwner))

	cfg, err = f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, newOwner, cfg.Sender.Owner)
	require.Equal(t, newOwner, cfg.Redeemer.Owner)
	require.Equal(t, newOwner, cfg.Owner.Owner)
	require.Nil(t, cfg.Owner.PendingOwner)

	// the confirmation cannot be replayed and the old owner is locked out
	err = f.Program.ConfirmOwnershipTransferRequest(f.Ctx, newOwner)
	require.ErrorIs(t, err, types.ErrNotPendingOwner)
	err = f.Program.SetPauseForTransfers(f.Ctx, f.Owner, true)
	require.ErrorIs(t, err, types.ErrOwnerOnly)
	require.NoError(t, f.Program.SetPauseForTransfers(f.Ctx, newOwner, true))
}

func TestOwnershipTransferCancel(t *testing.T) {
	f := testutils.Setup(t)
	newOwner := solana.NewWallet().PublicKey()

	require.NoError(t, f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Owner, newOwner))

	err := f.Program.CancelOwnershipTransferRequest(f.Ctx, newOwner)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	require.NoError(t, f.Program.CancelOwnershipTransferRequest(f.Ctx, f.Owner))

	cfg, err := f.Program.Config(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, f.Owner, cfg.Owner.Owner)
	require.Equal(t, f.Owner, cfg.Sender.Owner)
	require.Nil(t, cfg.Owner.PendingOwner)

	err = f.Program.ConfirmOwnershipTransferRequest(f.Ctx, newOwner)
	require.ErrorIs(t, err, types.ErrNotPendingOwner)
}

func TestSubmitOwnershipTransferRequest(t *testing.T) {
	f := testutils.Setup(t)

	err := f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Assistant, f.Assistant)
	require.ErrorIs(t, err, types.ErrOwnerOnly)

	err = f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Owner, solana.PublicKey{})
	require.ErrorIs(t, err, types.ErrInvalidPublicKey)

	err = f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Owner, f.Owner)
	require.ErrorIs(t, err, types.ErrAlreadyTheOwner)

	// a second nomination replaces the first
	first := solana.NewWallet().PublicKey()
	second := solana.NewWallet().PublicKey()
	require.NoError(t, f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Owner, first))
	require.NoError(t, f.Program.SubmitOwnershipTransferRequest(f.Ctx, f.Owner, second))

	err = f.Program.ConfirmOwnershipTransferRequest(f.Ctx, first)
	require.ErrorIs(t, err, types.ErrNotPendingOwner)
	require.NoError(t, f.Program.ConfirmOwnershipTransferRequest(f.Ctx, second))
}
