package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cosmos/btcutil/base58"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// Address is a 32-byte universal address as carried by the messaging bridge.
// Shorter native addresses (EVM, bech32) are left-padded with zeros.
type Address [32]byte

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// PublicKey interprets the address as a host chain account.
func (a Address) PublicKey() solana.PublicKey {
	return solana.PublicKeyFromBytes(a[:])
}

// AddressFromPublicKey converts a host chain account to its universal address.
func AddressFromPublicKey(key solana.PublicKey) Address {
	var a Address
	copy(a[:], key.Bytes())
	return a
}

// AddressFromBytes left-pads bz into a universal address.
func AddressFromBytes(bz []byte) (Address, error) {
	var a Address
	if len(bz) > len(a) {
		return a, fmt.Errorf("address is %d bytes, at most 32 allowed", len(bz))
	}
	copy(a[:], common.LeftPadBytes(bz, len(a)))
	return a, nil
}

// ParseAddress accepts the address formats used by foreign chains:
//   - 0x-prefixed hex, either a 20-byte EVM address or a full 32-byte address
//   - bech32 (cosmos chains), left-padded to 32 bytes
//   - base58, as used by the host chain
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Address{}, fmt.Errorf("empty address")
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		raw := s[2:]
		if len(raw) == 2*common.AddressLength {
			if !common.IsHexAddress(s) {
				return Address{}, fmt.Errorf("invalid evm address %q", s)
			}
			return AddressFromBytes(common.HexToAddress(s).Bytes())
		}
		bz, err := hex.DecodeString(raw)
		if err != nil {
			return Address{}, fmt.Errorf("invalid hex address %q: %w", s, err)
		}
		if len(bz) != 32 {
			return Address{}, fmt.Errorf("hex address %q must be 20 or 32 bytes", s)
		}
		return AddressFromBytes(bz)
	case strings.Contains(s, "1"):
		if _, bz, err := bech32.DecodeAndConvert(s); err == nil {
			return AddressFromBytes(bz)
		}
	}

	bz := base58.Decode(s)
	if len(bz) != 32 {
		return Address{}, fmt.Errorf("unrecognized address %q", s)
	}
	return AddressFromBytes(bz)
}

// Bech32 renders the address's trailing 20 bytes with the given prefix.
func (a Address) Bech32(prefix string) (string, error) {
	return bech32.ConvertAndEncode(prefix, a[12:])
}
