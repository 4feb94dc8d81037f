package relayer

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// stubTx serves only the token program.
type stubTx struct {
	types.Tx
	token *stubToken
}

func (tx stubTx) Token() types.TokenProgram { return tx.token }

type stubToken struct {
	types.TokenProgram
	accountErr  error
	initialized []solana.PublicKey
}

func (s *stubToken) Account(addr solana.PublicKey) (types.TokenAccount, error) {
	if s.accountErr != nil {
		return types.TokenAccount{}, s.accountErr
	}
	return types.TokenAccount{Address: addr}, nil
}

func (s *stubToken) InitializeAccount(addr, _, _ solana.PublicKey) error {
	s.initialized = append(s.initialized, addr)
	return nil
}

func TestEnsureTokenAccount(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	t.Run("existing", func(t *testing.T) {
		token := &stubToken{}
		got, err := ensureTokenAccount(stubTx{token: token}, owner, mint)
		require.NoError(t, err)
		require.Equal(t, ata, got)
		require.Empty(t, token.initialized)
	})

	t.Run("missing", func(t *testing.T) {
		token := &stubToken{accountErr: types.ErrAccountNotFound}
		_, err := ensureTokenAccount(stubTx{token: token}, owner, mint)
		require.NoError(t, err)
		require.Equal(t, []solana.PublicKey{ata}, token.initialized)
	})

	t.Run("lookup failure", func(t *testing.T) {
		lookupErr := errors.New("account data corrupt")
		token := &stubToken{accountErr: lookupErr}
		_, err := ensureTokenAccount(stubTx{token: token}, owner, mint)
		require.ErrorIs(t, err, lookupErr)
		require.Empty(t, token.initialized)
	})
}
