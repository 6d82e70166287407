// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Solana    SolanaConfig    `mapstructure:"solana"`
	Pools     []PoolConfig    `mapstructure:"pools"`
	Lending   LendingConfig   `mapstructure:"lending"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// SolanaConfig holds Solana RPC node configuration.
type SolanaConfig struct {
	RPCURL            string        `mapstructure:"rpc_url"`
	WebSocketURL      string        `mapstructure:"websocket_url"`
	Commitment        string        `mapstructure:"commitment"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxReconnects     int           `mapstructure:"max_reconnects"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
}

// PoolConfig describes one trading pair and its pool account on each venue.
type PoolConfig struct {
	Pair                 string `mapstructure:"pair"` // e.g. "SOL-USDC"
	RaydiumAddress       string `mapstructure:"raydium_address"`
	RaydiumMinimalLayout bool   `mapstructure:"raydium_minimal_layout"`
	OrcaAddress          string `mapstructure:"orca_address"`
}

// RaydiumPubkey returns the Raydium pool account as a solana.PublicKey.
func (p *PoolConfig) RaydiumPubkey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(p.RaydiumAddress)
}

// OrcaPubkey returns the Orca whirlpool account as a solana.PublicKey.
func (p *PoolConfig) OrcaPubkey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(p.OrcaAddress)
}

// LendingConfig holds the flash loan reserve configuration.
type LendingConfig struct {
	ReserveAddress    string  `mapstructure:"reserve_address"`
	LoanAsset         string  `mapstructure:"loan_asset"`
	LoanFeeRate       float64 `mapstructure:"loan_fee_rate"`
	LiquidityOffset   int     `mapstructure:"liquidity_offset"`
	LiquidityDecimals uint8   `mapstructure:"liquidity_decimals"`
	MaxLoanFraction   float64 `mapstructure:"max_loan_fraction"`
}

// ReservePubkey returns the lending reserve account as a solana.PublicKey.
func (c *LendingConfig) ReservePubkey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.ReserveAddress)
}

// LoanFeeRateDecimal returns the flash loan fee rate as decimal.Decimal.
func (c *LendingConfig) LoanFeeRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.LoanFeeRate)
}

// ArbitrageConfig holds arbitrage detection configuration.
type ArbitrageConfig struct {
	Pairs             []string      `mapstructure:"pairs"`
	SlippageTolerance float64       `mapstructure:"slippage_tolerance"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	HistorySize       int           `mapstructure:"history_size"`
	TUIMode           bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// SlippageToleranceDecimal returns the slippage tolerance as decimal.Decimal.
func (c *ArbitrageConfig) SlippageToleranceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippageTolerance)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SOLARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SOLARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SOLARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SOLARB_LOG_LEVEL", "LOG_LEVEL")

	// Solana
	v.BindEnv("solana.rpc_url", "SOLARB_RPC_URL", "SOLANA_RPC_URL")
	v.BindEnv("solana.websocket_url", "SOLARB_WS_URL", "SOLANA_WS_URL")
	v.BindEnv("solana.commitment", "SOLARB_COMMITMENT")

	// Lending
	v.BindEnv("lending.reserve_address", "SOLARB_LENDING_RESERVE")
	v.BindEnv("lending.loan_fee_rate", "SOLARB_LOAN_FEE_RATE")

	// Arbitrage
	v.BindEnv("arbitrage.pairs", "SOLARB_PAIRS")
	v.BindEnv("arbitrage.slippage_tolerance", "SOLARB_SLIPPAGE_TOLERANCE")
	v.BindEnv("arbitrage.poll_interval", "SOLARB_POLL_INTERVAL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SOLARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SOLARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SOLARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "solarb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Solana defaults
	v.SetDefault("solana.rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("solana.websocket_url", "wss://api.mainnet-beta.solana.com")
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.requests_per_minute", 300)
	v.SetDefault("solana.max_reconnects", 0) // infinite
	v.SetDefault("solana.initial_backoff", "1s")
	v.SetDefault("solana.max_backoff", "30s")

	// Mainnet SOL-USDC pool defaults
	v.SetDefault("pools", []map[string]any{
		{
			"pair":            "SOL-USDC",
			"raydium_address": "58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2",
			"orca_address":    "FpCMFDFGYotvufJ7HrFHsWEiiQCGbkLCtwHiDnh7o28Q",
		},
	})

	// Lending defaults (Solend main pool SOL reserve)
	v.SetDefault("lending.reserve_address", "8PbodeaosQP19SjYFx855UMqWxH2HynZLdBXmsrbac36")
	v.SetDefault("lending.loan_asset", "SOL")
	v.SetDefault("lending.loan_fee_rate", 0.0009) // 9 bps
	v.SetDefault("lending.liquidity_offset", 171)
	v.SetDefault("lending.liquidity_decimals", 9)
	v.SetDefault("lending.max_loan_fraction", 0.1)

	// Arbitrage defaults
	v.SetDefault("arbitrage.pairs", []string{"SOL-USDC"})
	v.SetDefault("arbitrage.slippage_tolerance", 0.01)
	v.SetDefault("arbitrage.poll_interval", "5s")
	v.SetDefault("arbitrage.history_size", 60)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "solarb")
	v.SetDefault("telemetry.trace_provider", "CONSOLE_PROVIDER")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8086)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Solana.RPCURL == "" {
		return fmt.Errorf("solana.rpc_url is required")
	}
	if c.Solana.WebSocketURL == "" {
		return fmt.Errorf("solana.websocket_url is required")
	}
	if len(c.Pools) == 0 {
		return fmt.Errorf("pools cannot be empty")
	}
	for i, p := range c.Pools {
		if p.Pair == "" {
			return fmt.Errorf("pools[%d].pair is required", i)
		}
		if _, err := solana.PublicKeyFromBase58(p.RaydiumAddress); err != nil {
			return fmt.Errorf("invalid pools[%d].raydium_address: %s", i, p.RaydiumAddress)
		}
		if _, err := solana.PublicKeyFromBase58(p.OrcaAddress); err != nil {
			return fmt.Errorf("invalid pools[%d].orca_address: %s", i, p.OrcaAddress)
		}
	}
	if _, err := solana.PublicKeyFromBase58(c.Lending.ReserveAddress); err != nil {
		return fmt.Errorf("invalid lending.reserve_address: %s", c.Lending.ReserveAddress)
	}
	if c.Lending.LoanFeeRate < 0 || c.Lending.LoanFeeRate >= 1 {
		return fmt.Errorf("lending.loan_fee_rate must be in [0, 1): %f", c.Lending.LoanFeeRate)
	}
	if c.Arbitrage.SlippageTolerance < 0 || c.Arbitrage.SlippageTolerance >= 1 {
		return fmt.Errorf("arbitrage.slippage_tolerance must be in [0, 1): %f", c.Arbitrage.SlippageTolerance)
	}
	return nil
}

// PoolForPair returns the pool config for the given pair, if present.
func (c *Config) PoolForPair(pair string) (PoolConfig, bool) {
	for _, p := range c.Pools {
		if p.Pair == pair {
			return p, true
		}
	}
	return PoolConfig{}, false
}
