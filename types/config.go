package types

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"

	DefaultNativeDecimals uint8 = 9
)

type Config struct {
	ProgramID      string        `yaml:"program-id" json:"program-id"`
	HostChain      string        `yaml:"host-chain" json:"host-chain"`
	NativeDecimals uint8         `yaml:"native-decimals" json:"native-decimals"`
	Keypair        string        `yaml:"keypair" json:"keypair"`
	MetricsPort    int16         `yaml:"metrics-port" json:"metrics-port"`
	Store          StoreConfig   `yaml:"store" json:"store"`
	Api            ApiConfig     `yaml:"api" json:"api"`
	Bridge         BridgeConfig  `yaml:"bridge" json:"bridge"`
	Genesis        GenesisConfig `yaml:"genesis" json:"genesis"`
}

type StoreConfig struct {
	Backend  string `yaml:"backend" json:"backend"`
	RedisURL string `yaml:"redis-url" json:"redis-url"`
	Key      string `yaml:"key" json:"key"`
}

type ApiConfig struct {
	Listen         string   `yaml:"listen" json:"listen"`
	TrustedProxies []string `yaml:"trusted-proxies" json:"trusted-proxies"`
}

// BridgeConfig seeds the simulated messaging bridge of the devnet ledger.
type BridgeConfig struct {
	ProgramID        string            `yaml:"program-id" json:"program-id"`
	ForeignEndpoints map[uint16]string `yaml:"foreign-endpoints" json:"foreign-endpoints"`
}

// GenesisConfig lists the mints and balances the devnet ledger starts with.
type GenesisConfig struct {
	Mints    []GenesisMint    `yaml:"mints" json:"mints"`
	Lamports []GenesisBalance `yaml:"lamports" json:"lamports"`
	Tokens   []GenesisBalance `yaml:"tokens" json:"tokens"`
}

type GenesisMint struct {
	Address      string `yaml:"address" json:"address"`
	Decimals     uint8  `yaml:"decimals" json:"decimals"`
	TokenChain   uint16 `yaml:"token-chain" json:"token-chain"`
	TokenAddress string `yaml:"token-address" json:"token-address"`
}

type GenesisBalance struct {
	Owner  string `yaml:"owner" json:"owner"`
	Mint   string `yaml:"mint,omitempty" json:"mint,omitempty"`
	Amount uint64 `yaml:"amount" json:"amount"`
}

func Parse(file string) (cfg Config, err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}
	err = yaml.Unmarshal(data, &cfg)
	return cfg, err
}
