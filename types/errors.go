package types

import "errors"

// ErrorKind groups instruction failures by cause.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindState         ErrorKind = "state"
	KindArithmetic    ErrorKind = "arithmetic"
	KindNotFound      ErrorKind = "not_found"
	KindInternal      ErrorKind = "internal"
)

// validation
var (
	ErrInvalidPublicKey             = errors.New("invalid public key")
	ErrInvalidForeignContract       = errors.New("invalid foreign contract")
	ErrForeignContractNotRegistered = errors.New("foreign contract not registered")
	ErrRelayerFeeNotSet             = errors.New("relayer fee not set for chain")
	ErrTokenAlreadyRegistered       = errors.New("token already registered")
	ErrTokenNotRegistered           = errors.New("token not registered")
	ErrZeroSwapRate                 = errors.New("swap rate must be nonzero")
	ErrSwapsNotAllowedForNativeMint = errors.New("native swaps not allowed for native mint")
	ErrInvalidPrecision             = errors.New("precision must be nonzero")
	ErrInvalidRecipient             = errors.New("invalid recipient")
	ErrZeroBridgeAmount             = errors.New("bridged amount is zero after truncation")
	ErrInvalidToNativeAmount        = errors.New("normalized to-native amount is zero")
	ErrInsufficientFunds            = errors.New("amount does not cover relayer fee and native swap")
	ErrNativeMintRequired           = errors.New("native mint required to wrap native asset")
	ErrInvalidTransferToChain       = errors.New("transfer is not addressed to this chain")
	ErrInvalidTransferToAddress     = errors.New("transfer is not addressed to this redeemer")
	ErrInvalidTransferTokenChain    = errors.New("transfer token chain does not match instruction")
	ErrInvalidMint                  = errors.New("mint does not match transfer")
)

// authorization
var (
	ErrOwnerOnly            = errors.New("caller is not the owner")
	ErrOwnerOrAssistantOnly = errors.New("caller is neither the owner nor the assistant")
	ErrNotPendingOwner      = errors.New("caller is not the pending owner")
	ErrAlreadyTheOwner      = errors.New("new owner is already the owner")
)

// state
var (
	ErrAlreadyInitialized      = errors.New("program already initialized")
	ErrNotInitialized          = errors.New("program not initialized")
	ErrOutboundTransfersPaused = errors.New("outbound transfers are paused")
	ErrAlreadyRedeemed         = errors.New("transfer already redeemed")
	ErrVersionConflict         = errors.New("ledger snapshot version conflict")
)

// arithmetic
var (
	ErrFeeCalculation         = errors.New("relayer fee calculation failed")
	ErrInvalidSwapCalculation = errors.New("native swap calculation failed")
	ErrArithmeticOverflow     = errors.New("arithmetic overflow")
)

// collaborator failures
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOwnerMismatch       = errors.New("account owner mismatch")
	ErrMessageNotFound     = errors.New("message not found")
	ErrInvalidPayload      = errors.New("invalid transfer payload")
	ErrUnknownPayloadID    = errors.New("unknown transfer payload id")
	ErrAccountNotEmpty     = errors.New("account has a nonzero token balance")
)

var errorKinds = map[error]ErrorKind{
	ErrInvalidPublicKey:             KindValidation,
	ErrInvalidForeignContract:       KindValidation,
	ErrForeignContractNotRegistered: KindValidation,
	ErrRelayerFeeNotSet:             KindValidation,
	ErrTokenAlreadyRegistered:       KindValidation,
	ErrTokenNotRegistered:           KindValidation,
	ErrZeroSwapRate:                 KindValidation,
	ErrSwapsNotAllowedForNativeMint: KindValidation,
	ErrInvalidPrecision:             KindValidation,
	ErrInvalidRecipient:             KindValidation,
	ErrZeroBridgeAmount:             KindValidation,
	ErrInvalidToNativeAmount:        KindValidation,
	ErrInsufficientFunds:            KindValidation,
	ErrNativeMintRequired:           KindValidation,
	ErrInvalidTransferToChain:       KindValidation,
	ErrInvalidTransferToAddress:     KindValidation,
	ErrInvalidTransferTokenChain:    KindValidation,
	ErrInvalidMint:                  KindValidation,
	ErrInvalidPayload:               KindValidation,
	ErrUnknownPayloadID:             KindValidation,
	ErrInsufficientBalance:          KindValidation,
	ErrOwnerMismatch:                KindValidation,

	ErrOwnerOnly:            KindAuthorization,
	ErrOwnerOrAssistantOnly: KindAuthorization,
	ErrNotPendingOwner:      KindAuthorization,
	ErrAlreadyTheOwner:      KindAuthorization,

	ErrAlreadyInitialized:      KindState,
	ErrNotInitialized:          KindState,
	ErrOutboundTransfersPaused: KindState,
	ErrAlreadyRedeemed:         KindState,
	ErrVersionConflict:         KindState,
	ErrAccountExists:           KindState,
	ErrAccountNotEmpty:         KindState,

	ErrFeeCalculation:         KindArithmetic,
	ErrInvalidSwapCalculation: KindArithmetic,
	ErrArithmeticOverflow:     KindArithmetic,

	ErrAccountNotFound: KindNotFound,
	ErrMessageNotFound: KindNotFound,
}

// KindOf classifies err by the first known sentinel it wraps.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for sentinel, kind := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}
