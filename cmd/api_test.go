package cmd_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/cmd"
	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	testutils "github.com/strangelove-ventures/token-bridge-relayer/test_util"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

func newRouter(t *testing.T) (*testutils.Fixture, *gin.Engine) {
	t.Helper()
	f := testutils.Setup(t)
	router, err := cmd.NewRouter(f.Program, testutils.Logger, nil)
	require.NoError(t, err)
	return f, router
}

func get(t *testing.T, router http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestApiConfig(t *testing.T) {
	f, router := newRouter(t)

	var cfg struct {
		Owner struct {
			Owner     string `json:"owner"`
			Assistant string `json:"assistant"`
		} `json:"owner"`
		Redeemer struct {
			FeeRecipient string `json:"fee_recipient"`
		} `json:"redeemer"`
	}
	rec := get(t, router, "/v1/config", &cfg)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, f.Owner.String(), cfg.Owner.Owner)
	require.Equal(t, f.Assistant.String(), cfg.Owner.Assistant)
	require.Equal(t, f.FeeRecipient.String(), cfg.Redeemer.FeeRecipient)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApiRequestIDIsKept(t *testing.T) {
	_, router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/config", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestApiRegisteredToken(t *testing.T) {
	f, router := newRouter(t)

	var token types.RegisteredToken
	rec := get(t, router, "/v1/tokens/"+f.TokenMint.String(), &token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, token.IsRegistered)
	require.Equal(t, testutils.TokenSwapRate, token.SwapRate)
	require.Equal(t, testutils.MaxNativeSwapAmount, token.MaxNativeSwapAmount)

	rec = get(t, router, "/v1/tokens/not-a-key", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApiRelayerFee(t *testing.T) {
	_, router := newRouter(t)

	var fee struct {
		Fee uint64 `json:"fee"`
	}
	rec := get(t, router, "/v1/relayer-fees/ethereum", &fee)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testutils.RelayerFeeUSD, fee.Fee)

	// validation errors map to 400
	rec = get(t, router, "/v1/relayer-fees/polygon", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), types.ErrRelayerFeeNotSet.Error())

	rec = get(t, router, "/v1/foreign-contracts/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestApiQuote(t *testing.T) {
	f, router := newRouter(t)

	var quote struct {
		RelayerFee      uint64 `json:"relayer_fee"`
		MaxSwapAmountIn uint64 `json:"max_swap_amount_in"`
		Swap            struct {
			TokenAmountIn   uint64 `json:"token_amount_in"`
			NativeAmountOut uint64 `json:"native_amount_out"`
		} `json:"swap"`
	}
	path := fmt.Sprintf("/v1/quote?chain=%d&mint=%s&to_native=%d", testutils.ForeignChain, f.TokenMint, 10_000_000)
	rec := get(t, router, path, &quote)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint64(50_000), quote.RelayerFee)
	require.Equal(t, uint64(150_000_000), quote.MaxSwapAmountIn)
	require.Equal(t, uint64(10_000_000), quote.Swap.TokenAmountIn)
	require.Equal(t, uint64(66_666_666), quote.Swap.NativeAmountOut)

	rec = get(t, router, "/v1/quote?chain=2&mint="+solana.NewWallet().PublicKey().String(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, router, "/v1/quote?chain=2&mint="+f.TokenMint.String()+"&to_native=-1", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApiMessagesAndTransfers(t *testing.T) {
	f, router := newRouter(t)

	rec := get(t, router, "/v1/messages/0", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	res, err := f.Program.SendNativeTokensWithPayload(f.Ctx, relayer.SendRequest{
		Payer:            f.User,
		Mint:             f.TokenMint,
		Amount:           100_000_000,
		RecipientChain:   testutils.ForeignChain,
		RecipientAddress: types.Address{31: 0x01},
	})
	require.NoError(t, err)

	var msg struct {
		Sequence uint64 `json:"sequence"`
	}
	rec = get(t, router, "/v1/messages/0", &msg)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, res.Sequence, msg.Sequence)

	var transfer struct {
		MessageHash string `json:"message_hash"`
		Direction   string `json:"direction"`
		Status      string `json:"status"`
	}
	rec = get(t, router, "/v1/transfers/"+res.MessageHash.Hex(), &transfer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, types.Send, transfer.Direction)
	require.Equal(t, types.Sent, transfer.Status)

	rec = get(t, router, "/v1/transfers/0x"+fmt.Sprintf("%064x", 1), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApiRedeemed(t *testing.T) {
	f, router := newRouter(t)

	hash := f.Attest(t, f.InboundToken(100_000_000, types.TransferWithRelay{
		Recipient: types.AddressFromPublicKey(f.User),
	}))

	var out struct {
		Redeemed bool `json:"redeemed"`
	}
	rec := get(t, router, "/v1/redeemed/"+hash.Hex(), &out)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, out.Redeemed)

	_, err := f.Program.RedeemNativeTransferWithPayload(f.Ctx, relayer.RedeemRequest{
		Payer:       f.User,
		Recipient:   f.User,
		MessageHash: hash,
	})
	require.NoError(t, err)

	// base58 works as well as hex
	rec = get(t, router, "/v1/redeemed/"+solana.PublicKeyFromBytes(hash.Bytes()).String(), &out)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, out.Redeemed)

	rec = get(t, router, "/v1/redeemed/xyz", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
