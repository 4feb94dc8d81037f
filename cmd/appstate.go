package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"cosmossdk.io/log"

	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

// envKeypair overrides the keypair path set in the config file.
const envKeypair = "RELAYER_KEYPAIR"

// appState is the modifiable state of the application.
type AppState struct {
	Config *types.Config

	ConfigPath string

	// EnvFile is loaded into the environment before the config is parsed.
	EnvFile string

	Debug bool

	LogLevel string

	Logger log.Logger
}

func NewAppState() *AppState {
	return &AppState{}
}

// InitAppState checks if a logger and config are present. If not, it adds them to the AppState
func (a *AppState) InitAppState() {
	if a.Logger == nil {
		a.InitLogger()
	}
	if a.Config == nil {
		a.loadConfigFile()
	}
}

func (a *AppState) InitLogger() {
	// info level is default
	level := zerolog.InfoLevel
	switch a.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// a.Debug overrides a.loglevel
	if a.Debug {
		a.Logger = log.NewLogger(os.Stdout, log.LevelOption(zerolog.DebugLevel))
	} else {
		a.Logger = log.NewLogger(os.Stdout, log.LevelOption(level))
	}
}

// loadConfigFile loads a configuration into the AppState. It uses the AppState ConfigPath
// to determine file path to config.
func (a *AppState) loadConfigFile() {
	if a.Logger == nil {
		a.InitLogger()
	}
	if err := a.LoadConfig(); err != nil {
		a.Logger.Error("Unable to load config", "location", a.ConfigPath, "err", err)
		os.Exit(1)
	}
	a.Logger.Info("Successfully parsed config file", "location", a.ConfigPath)
}

// LoadConfig parses and validates the config file, applying environment
// overrides.
func (a *AppState) LoadConfig() error {
	if a.EnvFile != "" {
		if err := godotenv.Load(a.EnvFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file %s: %w", a.EnvFile, err)
		}
	}

	config, err := ParseConfig(a.ConfigPath)
	if err != nil {
		return err
	}
	if keypair := os.Getenv(envKeypair); keypair != "" {
		config.Keypair = keypair
	}
	a.Config = config

	if err := a.validateConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// validateConfig checks the AppState Config for any invalid settings.
func (a *AppState) validateConfig() error {
	var errs []error
	cfg := a.Config

	if cfg.ProgramID == "" {
		errs = append(errs, fmt.Errorf("program-id must be set in the config"))
	} else if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		errs = append(errs, fmt.Errorf("program-id %q is not a valid public key: %w", cfg.ProgramID, err))
	}

	if cfg.HostChain != "" {
		chain, err := types.ParseChainID(cfg.HostChain)
		switch {
		case err != nil:
			errs = append(errs, err)
		case chain != types.HostChainID:
			errs = append(errs, fmt.Errorf("host-chain must be %s, got %s", types.HostChainID, chain))
		}
	}

	if cfg.NativeDecimals == 0 {
		errs = append(errs, fmt.Errorf("native-decimals must be greater than zero in the config"))
	}

	switch cfg.Store.Backend {
	case "", types.StoreBackendMemory:
	case types.StoreBackendRedis:
		if cfg.Store.RedisURL == "" {
			errs = append(errs, fmt.Errorf("store.redis-url must be set for the %s backend", types.StoreBackendRedis))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend))
	}

	for chain := range cfg.Bridge.ForeignEndpoints {
		if !types.ChainID(chain).IsForeign() {
			errs = append(errs, fmt.Errorf("bridge.foreign-endpoints: chain %d is not a foreign chain", chain))
		}
	}

	return errors.Join(errs...)
}

// signer loads the keypair that signs admin instructions.
func (a *AppState) signer() (solana.PrivateKey, error) {
	if a.Config.Keypair == "" {
		return nil, fmt.Errorf("no keypair configured, set keypair in the config or %s", envKeypair)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(a.Config.Keypair)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair %s: %w", a.Config.Keypair, err)
	}
	return key, nil
}
