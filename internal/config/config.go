package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestSize        int64         `env:"MAX_REQUEST_SIZE,default=15728640"`

	// PublicBaseURL is the externally visible base URL of this service.
	// It is embedded in the sign-process URIs handed to end-user devices,
	// so it must match what the device can actually reach.
	PublicBaseURL string `env:"PUBLIC_BASE_URL,required=true"`

	// database settings
	DatabaseURL         string        `env:"DATABASE_URL,required=true"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`

	// signature-verification oracle (NCANode-compatible) settings
	OracleBaseURL          string        `env:"ORACLE_BASE_URL,required=true"`
	OracleTimeout          time.Duration `env:"ORACLE_TIMEOUT,default=15s"`
	OracleRetryMaxAttempts int           `env:"ORACLE_RETRY_MAX_ATTEMPTS,default=3"`
	OracleRetryBaseDelay   time.Duration `env:"ORACLE_RETRY_BASE_DELAY,default=250ms"`
	OracleRetryMaxDelay    time.Duration `env:"ORACLE_RETRY_MAX_DELAY,default=5s"`

	// auth settings
	//
	// AuthProofMaxAge bounds how old the timeStamp inside an EDS
	// authentication XML may be before the proof is rejected.
	AuthProofMaxAge time.Duration `env:"AUTH_PROOF_MAX_AGE,default=5m"`

	// DefaultExpiry is applied when a creation request carries no expiry date.
	DefaultExpiry time.Duration `env:"DEFAULT_TRANSACTION_EXPIRY,default=24h"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}

	if !strings.HasPrefix(cfg.OracleBaseURL, "http://") && !strings.HasPrefix(cfg.OracleBaseURL, "https://") {
		return fmt.Errorf("ORACLE_BASE_URL must be an absolute http(s) URL, got %q", cfg.OracleBaseURL)
	}
	if cfg.OracleRetryMaxAttempts < 1 {
		return fmt.Errorf("ORACLE_RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.OracleRetryBaseDelay <= 0 || cfg.OracleRetryMaxDelay < cfg.OracleRetryBaseDelay {
		return fmt.Errorf("oracle retry delays are inconsistent: base %s, max %s",
			cfg.OracleRetryBaseDelay, cfg.OracleRetryMaxDelay)
	}

	if cfg.AuthProofMaxAge <= 0 {
		return fmt.Errorf("AUTH_PROOF_MAX_AGE must be positive")
	}

	return nil
}
