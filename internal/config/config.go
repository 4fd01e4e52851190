package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "WarrantyChain"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultStoreDriver     = StoreMemory
	defaultSQLitePath      = "data/warranty.db"
	DefaultAptosNodeURL    = "https://fullnode.testnet.aptoslabs.com/v1"
	defaultChainMode       = ChainLive
	defaultChainTimeout    = 10 * time.Second
	defaultChainRetryMax   = 2
	defaultRestoreTimeout  = 3 * time.Second
	defaultFallbackBalance = 100
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultConnectLimit    = 10
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Storage drivers for portal records.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Chain modes select the data source behind the blockchain service.
const (
	ChainLive = "live"
	ChainMock = "mock"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName     string
	AppEnv      string
	Port        string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	RedisURL    string
	StoreDriver string
	SQLitePath  string

	AptosNodeURL  string
	ChainMode     string
	ChainTimeout  time.Duration
	ChainRetryMax int

	// WalletKeys holds hex encoded ed25519 seeds for the in-process wallet.
	// An empty list means no wallet extension is available.
	WalletKeys            []string
	WalletRestoreTimeout  time.Duration
	WalletFallbackBalance float64

	ShutdownPeriod   time.Duration
	IdempotencyTTL   time.Duration
	ConnectRateLimit int
}

// Load reads configuration values from the environment and populates a Config instance.
// A .env file in the working directory is applied first when present; real
// environment variables always win over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:               getEnv("APP_NAME", defaultAppName),
		AppEnv:                getEnv("APP_ENV", defaultAppEnv),
		Port:                  getEnv("PORT", defaultPort),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:             strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisURL:              os.Getenv("REDIS_URL"),
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", defaultStoreDriver)),
		SQLitePath:            getEnv("SQLITE_PATH", defaultSQLitePath),
		AptosNodeURL:          strings.TrimRight(getEnv("APTOS_NODE_URL", DefaultAptosNodeURL), "/"),
		ChainMode:             strings.ToLower(getEnv("CHAIN_MODE", defaultChainMode)),
		ChainTimeout:          defaultChainTimeout,
		ChainRetryMax:         defaultChainRetryMax,
		WalletKeys:            splitList(os.Getenv("WALLET_PRIVATE_KEYS")),
		WalletRestoreTimeout:  defaultRestoreTimeout,
		WalletFallbackBalance: defaultFallbackBalance,
		ShutdownPeriod:        defaultShutdownDelay,
		IdempotencyTTL:        defaultIdempotencyTTL,
		ConnectRateLimit:      defaultConnectLimit,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.ChainTimeout, err = durationFromEnv("", "CHAIN_TIMEOUT", cfg.ChainTimeout); err != nil {
		return Config{}, err
	}
	if cfg.WalletRestoreTimeout, err = durationFromEnv("", "WALLET_RESTORE_TIMEOUT", cfg.WalletRestoreTimeout); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("CHAIN_RETRY_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid CHAIN_RETRY_MAX: %q", v)
		}
		cfg.ChainRetryMax = n
	}

	if v := os.Getenv("CONNECT_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CONNECT_RATE_LIMIT: %w", err)
		}
		cfg.ConnectRateLimit = n
	}

	if v := os.Getenv("WALLET_FALLBACK_BALANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WALLET_FALLBACK_BALANCE: %w", err)
		}
		cfg.WalletFallbackBalance = f
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.ChainMode {
	case ChainLive, ChainMock:
	default:
		return fmt.Errorf("unknown CHAIN_MODE %q", c.ChainMode)
	}

	if c.WalletRestoreTimeout <= 0 {
		return fmt.Errorf("WALLET_RESTORE_TIMEOUT must be positive")
	}

	if !c.IsDev() && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", c.AppEnv)
	}

	return nil
}

// IsDev reports whether the application runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if secondsKey != "" {
		if v := os.Getenv(secondsKey); v != "" {
			seconds, err := strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
			}
			return time.Duration(seconds) * time.Second, nil
		}
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
