package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
)

// Config application configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Flow     FlowConfig     `yaml:"flow"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Signer   SignerConfig   `yaml:"signer"`

	// Chains patches or extends the built-in chain table.
	Chains []*chains.ChainDescriptor `yaml:"chains"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig database configuration
type DatabaseConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
}

// NATSConfig NATS event publishing configuration. Publishing is disabled
// when URL is empty.
type NATSConfig struct {
	URL           string `yaml:"url"`
	Timeout       int    `yaml:"timeout"`        // seconds
	ReconnectWait int    `yaml:"reconnect_wait"` // seconds
	MaxReconnects int    `yaml:"max_reconnects"`
	StreamName    string `yaml:"stream_name"`
}

// AuthConfig JWT authentication configuration
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	TokenExpiry int    `yaml:"token_expiry"` // hours
}

// SignerConfig backend signing key configuration. The key is expected via
// SIGNER_PRIVATE_KEY in production; the yaml field exists for local runs.
type SignerConfig struct {
	PrivateKey   string `yaml:"private_key"`
	InitialChain uint64 `yaml:"initial_chain"`
}

// CORSConfig CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// FlowConfig transaction flow engine timing configuration
type FlowConfig struct {
	SignerTimeout        int `yaml:"signer_timeout"`         // seconds, wait for signer approval
	ConfirmTimeout       int `yaml:"confirm_timeout"`        // seconds, wait for tx confirmation
	SwitchSettleDelay    int `yaml:"switch_settle_delay"`    // milliseconds after a network switch
	RevertDisplayLength  int `yaml:"revert_display_length"`  // max chars of a revert reason surfaced to the UI
	ConfirmPollInterval  int `yaml:"confirm_poll_interval"`  // seconds between receipt polls
	ConfirmInitialWindow int `yaml:"confirm_initial_window"` // seconds for the initial WaitMined window
}

// TrackerConfig cross-chain settlement tracker configuration
type TrackerConfig struct {
	BaseURL      string `yaml:"base_url"`
	Timeout      int    `yaml:"timeout"`       // seconds, per-request HTTP timeout
	InitialDelay int    `yaml:"initial_delay"` // seconds before the first poll
	PollInterval int    `yaml:"poll_interval"` // seconds between polls
	MaxAttempts  int    `yaml:"max_attempts"`
	// OnTimeout selects the exhaustion policy: "optimistic_success"
	// reproduces the dashboard behavior (resolve success after the retry
	// ceiling, failed if the last poll errored), "unknown" resolves both
	// paths to an explicit unknown terminal status.
	OnTimeout string `yaml:"on_timeout"`
}

// Exhaustion policy values for TrackerConfig.OnTimeout.
const (
	OnTimeoutOptimisticSuccess = "optimistic_success"
	OnTimeoutUnknown           = "unknown"
)

// AppConfig global application configuration
var AppConfig *Config

// LoadConfig reads the YAML config file and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		log.Printf("✅ Loaded configuration from %s", path)
	} else {
		log.Printf("⚠️  No config file provided, using defaults")
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		NATS: NATSConfig{
			Timeout:       10,
			ReconnectWait: 5,
			MaxReconnects: -1,
			StreamName:    "LENDING_EVENTS",
		},
		Auth: AuthConfig{TokenExpiry: 24},
		Flow: FlowConfig{
			SignerTimeout:        120,
			ConfirmTimeout:       300,
			SwitchSettleDelay:    1500,
			RevertDisplayLength:  200,
			ConfirmPollInterval:  10,
			ConfirmInitialWindow: 30,
		},
		Tracker: TrackerConfig{
			BaseURL:      "https://zetachain-athens.blockpi.network/lcd/v1/public",
			Timeout:      30,
			InitialDelay: 10,
			PollInterval: 20,
			MaxAttempts:  30,
			OnTimeout:    OnTimeoutOptimisticSuccess,
		},
		Signer: SignerConfig{InitialChain: 7001},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("TRACKER_BASE_URL"); v != "" {
		cfg.Tracker.BaseURL = v
	}
	if v := os.Getenv("SIGNER_PRIVATE_KEY"); v != "" {
		cfg.Signer.PrivateKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Tracker.OnTimeout {
	case OnTimeoutOptimisticSuccess, OnTimeoutUnknown:
	default:
		return fmt.Errorf("invalid tracker on_timeout policy: %q", c.Tracker.OnTimeout)
	}
	if c.Tracker.MaxAttempts <= 0 {
		return fmt.Errorf("tracker max_attempts must be positive")
	}
	return nil
}

// Registry builds the chain registry from the built-in table plus any
// config-file patches.
func (c *Config) Registry() *chains.Registry {
	if len(c.Chains) == 0 {
		return chains.DefaultRegistry
	}
	return chains.NewRegistry(append(chains.BuiltinChains(), c.Chains...))
}

// SignerWait returns the signer approval deadline.
func (c *FlowConfig) SignerWait() time.Duration {
	return time.Duration(c.SignerTimeout) * time.Second
}

// ConfirmWait returns the confirmation deadline.
func (c *FlowConfig) ConfirmWait() time.Duration {
	return time.Duration(c.ConfirmTimeout) * time.Second
}

// SettleDelay returns the post-network-switch settling delay.
func (c *FlowConfig) SettleDelay() time.Duration {
	return time.Duration(c.SwitchSettleDelay) * time.Millisecond
}
