package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	TLS        TLSConfig
	Identity   IdentityConfig
	BankData   BankDataConfig
	Payments   PaymentsConfig
	Records    RecordsConfig
	Encryption EncryptionConfig
	Linking    LinkingConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

// IdentityConfig points at the external identity service that owns
// user accounts and sessions.
type IdentityConfig struct {
	Endpoint  string
	ProjectID string
	APIKey    string
}

// BankDataConfig holds aggregator API credentials.
type BankDataConfig struct {
	BaseURL  string
	ClientID string
	Secret   string
}

// PaymentsConfig holds payment processor API credentials.
type PaymentsConfig struct {
	BaseURL string
	Key     string
	Secret  string
}

// RecordsConfig identifies the document database and its collections.
type RecordsConfig struct {
	ProjectID       string
	CredentialsFile string
	UserCollection  string
	BankCollection  string
}

type EncryptionConfig struct {
	Key string
}

// LinkingConfig controls orchestrator policy for failures the upstream
// flow historically swallowed.
type LinkingConfig struct {
	LinkTokenFailureMode string // "degrade" or "fail"
	AccountViewTTL       time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	accountViewTTL, err := time.ParseDuration(getEnv("LINKING_ACCOUNT_VIEW_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINKING_ACCOUNT_VIEW_TTL: %w", err)
	}

	linkTokenMode := getEnv("LINKING_LINK_TOKEN_FAILURE_MODE", "degrade")
	if linkTokenMode != "degrade" && linkTokenMode != "fail" {
		return nil, fmt.Errorf("invalid LINKING_LINK_TOKEN_FAILURE_MODE %q (want degrade or fail)", linkTokenMode)
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Identity: IdentityConfig{
			Endpoint:  getEnv("IDENTITY_ENDPOINT", ""),
			ProjectID: getEnv("IDENTITY_PROJECT_ID", ""),
			APIKey:    getEnv("IDENTITY_API_KEY", ""),
		},
		BankData: BankDataConfig{
			BaseURL:  getEnv("BANKDATA_BASE_URL", "https://sandbox.plaid.com"),
			ClientID: getEnv("BANKDATA_CLIENT_ID", ""),
			Secret:   getEnv("BANKDATA_SECRET", ""),
		},
		Payments: PaymentsConfig{
			BaseURL: getEnv("PAYMENTS_BASE_URL", "https://api-sandbox.dwolla.com"),
			Key:     getEnv("PAYMENTS_KEY", ""),
			Secret:  getEnv("PAYMENTS_SECRET", ""),
		},
		Records: RecordsConfig{
			ProjectID:       getEnv("RECORDS_PROJECT_ID", ""),
			CredentialsFile: getEnv("RECORDS_CREDENTIALS_FILE", ""),
			UserCollection:  getEnv("RECORDS_USER_COLLECTION", "users"),
			BankCollection:  getEnv("RECORDS_BANK_COLLECTION", "banks"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Linking: LinkingConfig{
			LinkTokenFailureMode: linkTokenMode,
			AccountViewTTL:       accountViewTTL,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finexa-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.Identity.Endpoint == "" {
		return nil, fmt.Errorf("IDENTITY_ENDPOINT is required")
	}
	if cfg.Identity.ProjectID == "" {
		return nil, fmt.Errorf("IDENTITY_PROJECT_ID is required")
	}
	if cfg.Identity.APIKey == "" {
		return nil, fmt.Errorf("IDENTITY_API_KEY is required")
	}
	if cfg.BankData.ClientID == "" || cfg.BankData.Secret == "" {
		return nil, fmt.Errorf("BANKDATA_CLIENT_ID and BANKDATA_SECRET are required")
	}
	if cfg.Payments.Key == "" || cfg.Payments.Secret == "" {
		return nil, fmt.Errorf("PAYMENTS_KEY and PAYMENTS_SECRET are required")
	}
	if cfg.Records.ProjectID == "" {
		return nil, fmt.Errorf("RECORDS_PROJECT_ID is required")
	}
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
