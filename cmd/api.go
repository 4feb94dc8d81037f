package cmd

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cosmossdk.io/log"
	"github.com/cosmos/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/strangelove-ventures/token-bridge-relayer/relayer"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

const requestIDHeader = "X-Request-ID"

// NewRouter serves the read-only views of the program.
func NewRouter(p *relayer.Program, logger log.Logger, trustedProxies []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(logger))
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}

	h := &handler{program: p}
	v1 := router.Group("/v1")
	v1.GET("/config", h.getConfig)
	v1.GET("/tokens/:mint", h.getRegisteredToken)
	v1.GET("/foreign-contracts/:chain", h.getForeignContract)
	v1.GET("/relayer-fees/:chain", h.getRelayerFee)
	v1.GET("/quote", h.getQuote)
	v1.GET("/messages/:sequence", h.getMessage)
	v1.GET("/redeemed/:hash", h.getRedeemed)
	v1.GET("/transfers/:hash", h.getTransfer)

	return router, nil
}

// requestID tags every request with an id, reusing the caller's if present.
func requestID(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Next()
		logger.Debug("Api request", "id", id, "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status())
	}
}

type handler struct {
	program *relayer.Program
}

func statusOf(err error) int {
	switch types.KindOf(err) {
	case types.KindValidation:
		return http.StatusBadRequest
	case types.KindAuthorization:
		return http.StatusForbidden
	case types.KindState:
		return http.StatusConflict
	case types.KindArithmetic:
		return http.StatusUnprocessableEntity
	case types.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	c.IndentedJSON(statusOf(err), gin.H{"error": err.Error(), "kind": types.KindOf(err)})
}

func badRequest(c *gin.Context, err error) {
	c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": types.KindValidation})
}

func (h *handler) getConfig(c *gin.Context) {
	cfg, err := h.program.Config(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, cfg)
}

func (h *handler) getRegisteredToken(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		badRequest(c, err)
		return
	}
	token, err := h.program.RegisteredToken(c.Request.Context(), mint)
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, token)
}

func (h *handler) getForeignContract(c *gin.Context) {
	chain, err := types.ParseChainID(c.Param("chain"))
	if err != nil {
		badRequest(c, err)
		return
	}
	contract, err := h.program.ForeignContract(c.Request.Context(), chain)
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contract)
}

func (h *handler) getRelayerFee(c *gin.Context) {
	chain, err := types.ParseChainID(c.Param("chain"))
	if err != nil {
		badRequest(c, err)
		return
	}
	fee, err := h.program.RelayerFee(c.Request.Context(), chain)
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fee)
}

func (h *handler) getQuote(c *gin.Context) {
	chain, err := types.ParseChainID(c.Query("chain"))
	if err != nil {
		badRequest(c, err)
		return
	}
	mint, err := solana.PublicKeyFromBase58(c.Query("mint"))
	if err != nil {
		badRequest(c, err)
		return
	}
	var toNative uint64
	if s := c.Query("to_native"); s != "" {
		if toNative, err = strconv.ParseUint(s, 10, 64); err != nil {
			badRequest(c, err)
			return
		}
	}
	quote, err := h.program.Quote(c.Request.Context(), chain, mint, toNative)
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, quote)
}

func (h *handler) getMessage(c *gin.Context) {
	sequence, err := strconv.ParseUint(c.Param("sequence"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.program.Message(c.Request.Context(), sequence)
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, msg)
}

func (h *handler) getRedeemed(c *gin.Context) {
	hash, err := parseMessageHash(c.Param("hash"))
	if err != nil {
		badRequest(c, err)
		return
	}
	redeemed, err := h.program.IsRedeemed(c.Request.Context(), hash)
	if err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"hash": hash.Hex(), "redeemed": redeemed})
}

func (h *handler) getTransfer(c *gin.Context) {
	hash, err := parseMessageHash(c.Param("hash"))
	if err != nil {
		badRequest(c, err)
		return
	}
	if transfer, ok := h.program.Transfer(hash.Hex()); ok {
		c.IndentedJSON(http.StatusOK, transfer)
		return
	}
	c.IndentedJSON(http.StatusNotFound, gin.H{"error": "transfer not found", "kind": types.KindNotFound})
}

var errInvalidHash = errors.New("message hash must be 32 bytes of hex or base58")

// parseMessageHash accepts a 0x-prefixed or bare hex hash, or base58.
func parseMessageHash(s string) (common.Hash, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if bz, err := hex.DecodeString(trimmed); err == nil && len(bz) == common.HashLength {
		return common.BytesToHash(bz), nil
	}
	if bz := base58.Decode(s); len(bz) == common.HashLength {
		return common.BytesToHash(bz), nil
	}
	return common.Hash{}, errInvalidHash
}
