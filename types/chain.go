package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ChainID is the messaging bridge's identifier for a chain.
type ChainID uint16

const (
	ChainIDUnset     ChainID = 0
	ChainIDSolana    ChainID = 1
	ChainIDEthereum  ChainID = 2
	ChainIDTerra     ChainID = 3
	ChainIDBSC       ChainID = 4
	ChainIDPolygon   ChainID = 5
	ChainIDAvalanche ChainID = 6
	ChainIDOasis     ChainID = 7
	ChainIDAlgorand  ChainID = 8
	ChainIDAurora    ChainID = 9
	ChainIDFantom    ChainID = 10
	ChainIDKarura    ChainID = 11
	ChainIDAcala     ChainID = 12
	ChainIDKlaytn    ChainID = 13
	ChainIDCelo      ChainID = 14
	ChainIDNear      ChainID = 15
	ChainIDMoonbeam  ChainID = 16
	ChainIDTerra2    ChainID = 18
	ChainIDInjective ChainID = 19
	ChainIDSui       ChainID = 21
	ChainIDAptos     ChainID = 22
	ChainIDArbitrum  ChainID = 23
	ChainIDOptimism  ChainID = 24
	ChainIDSei       ChainID = 32
	ChainIDBase      ChainID = 30
)

// HostChainID is the chain this program is deployed on. Foreign contracts and
// send recipients must use a chain id greater than it.
const HostChainID = ChainIDSolana

var chainNames = map[ChainID]string{
	ChainIDSolana:    "solana",
	ChainIDEthereum:  "ethereum",
	ChainIDTerra:     "terra",
	ChainIDBSC:       "bsc",
	ChainIDPolygon:   "polygon",
	ChainIDAvalanche: "avalanche",
	ChainIDOasis:     "oasis",
	ChainIDAlgorand:  "algorand",
	ChainIDAurora:    "aurora",
	ChainIDFantom:    "fantom",
	ChainIDKarura:    "karura",
	ChainIDAcala:     "acala",
	ChainIDKlaytn:    "klaytn",
	ChainIDCelo:      "celo",
	ChainIDNear:      "near",
	ChainIDMoonbeam:  "moonbeam",
	ChainIDTerra2:    "terra2",
	ChainIDInjective: "injective",
	ChainIDSui:       "sui",
	ChainIDAptos:     "aptos",
	ChainIDArbitrum:  "arbitrum",
	ChainIDOptimism:  "optimism",
	ChainIDBase:      "base",
	ChainIDSei:       "sei",
}

func (c ChainID) String() string {
	if name, ok := chainNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown chain ID: %d", uint16(c))
}

// ParseChainID accepts either a numeric chain id or a known chain name.
func ParseChainID(s string) (ChainID, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return ChainID(n), nil
	}
	for id, name := range chainNames {
		if name == s {
			return id, nil
		}
	}
	return ChainIDUnset, fmt.Errorf("unknown chain: %q", s)
}

// IsForeign reports whether c may be used as a remote chain by this program.
func (c ChainID) IsForeign() bool {
	return c > HostChainID
}
