package types

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

var (
	SeedSender          = []byte("sender")
	SeedRedeemer        = []byte("redeemer")
	SeedOwner           = []byte("owner")
	SeedMint            = []byte("mint")
	SeedForeignContract = []byte("foreign_contract")
	SeedRelayerFee      = []byte("relayer_fee")
	SeedTmp             = []byte("tmp")
	SeedBridged         = []byte("bridged")
)

func chainSeed(chain ChainID) []byte {
	bz := make([]byte, 2)
	binary.LittleEndian.PutUint16(bz, uint16(chain))
	return bz
}

func mustFind(seeds [][]byte, programID solana.PublicKey) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		// only possible when no bump in [0, 255] lands off-curve
		panic(err)
	}
	return addr
}

func SenderConfigAddress(programID solana.PublicKey) solana.PublicKey {
	return mustFind([][]byte{SeedSender}, programID)
}

func RedeemerConfigAddress(programID solana.PublicKey) solana.PublicKey {
	return mustFind([][]byte{SeedRedeemer}, programID)
}

func OwnerConfigAddress(programID solana.PublicKey) solana.PublicKey {
	return mustFind([][]byte{SeedOwner}, programID)
}

func RegisteredTokenAddress(programID, mint solana.PublicKey) solana.PublicKey {
	return mustFind([][]byte{SeedMint, mint.Bytes()}, programID)
}

func ForeignContractAddress(programID solana.PublicKey, chain ChainID) solana.PublicKey {
	return mustFind([][]byte{SeedForeignContract, chainSeed(chain)}, programID)
}

func RelayerFeeAddress(programID solana.PublicKey, chain ChainID) solana.PublicKey {
	return mustFind([][]byte{SeedRelayerFee, chainSeed(chain)}, programID)
}

// CustodyAddress is the transfer-scoped token account that holds funds for
// the duration of a single send or redeem.
func CustodyAddress(programID, mint solana.PublicKey) solana.PublicKey {
	return mustFind([][]byte{SeedTmp, mint.Bytes()}, programID)
}

// BridgedMessageAddress is where an outbound bridge message is posted.
func BridgedMessageAddress(programID solana.PublicKey, sequence uint64) solana.PublicKey {
	bz := make([]byte, 8)
	binary.LittleEndian.PutUint64(bz, sequence)
	return mustFind([][]byte{SeedBridged, bz}, programID)
}
