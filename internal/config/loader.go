package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env files, the optional configs/config.yaml and the environment.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return LoadFrom(v)
}

// LoadFrom unmarshals an already prepared viper instance, layering defaults
// and environment overrides on top.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindLegacyEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.app_name", "LoanVerse Backend")
	v.SetDefault("server.version", "1.0.0")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.admin_token", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "loanverse")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.instance_connection_name", "")

	v.SetDefault("storage.use_memory", true)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", 30*time.Minute)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("lending.max_loan_amount", 10000000)
	v.SetDefault("lending.min_loan_amount", 10000)
	v.SetDefault("lending.idiom_default_amount", 500000)
	v.SetDefault("lending.safe_dti", 50.0)
	v.SetDefault("lending.debt_trap_dti", 60.0)
	v.SetDefault("lending.min_credit_score", 700)
	v.SetDefault("lending.max_tenure_months", 84)

	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.whatsapp_from", "")
	v.SetDefault("twilio.validate_webhook", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "loanverse-backend")

	v.SetDefault("jobs.follow_up_interval", 5*time.Minute)
	v.SetDefault("jobs.idle_window", 20*time.Minute)
}

// bindLegacyEnv keeps the deployment variable names that predate the
// sectioned config keys.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("database.user", "DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "DATABASE_PASSWORD", "DB_PASS")
	_ = v.BindEnv("database.name", "DATABASE_NAME", "DB_NAME")
	_ = v.BindEnv("database.instance_connection_name", "DATABASE_INSTANCE_CONNECTION_NAME", "INSTANCE_CONNECTION_NAME")
	_ = v.BindEnv("storage.use_memory", "STORAGE_USE_MEMORY", "USE_MEMORY_STORE")
	_ = v.BindEnv("tracing.enabled", "TRACING_ENABLED", "OTEL_ENABLED")
	_ = v.BindEnv("tracing.endpoint", "TRACING_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// loadEnvFile tries .env in the working directory and up to the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"environments/.env.development",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				log.Printf("✅ Loaded .env from: %s", path)
				return
			}
		}
	}
	log.Println("⚠️  No .env file found - using environment variables")
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	switch cfg.Session.Backend {
	case "memory":
	case "redis":
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when session.backend is redis")
		}
	default:
		return fmt.Errorf("session.backend must be memory or redis, got %q", cfg.Session.Backend)
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	l := cfg.Lending
	if l.MaxLoanAmount <= 0 || l.MinLoanAmount <= 0 || l.MinLoanAmount > l.MaxLoanAmount {
		return fmt.Errorf("lending amounts are inconsistent: min %d, max %d", l.MinLoanAmount, l.MaxLoanAmount)
	}
	if l.SafeDTI <= 0 || l.SafeDTI > 100 || l.DebtTrapDTI < l.SafeDTI {
		return fmt.Errorf("lending DTI thresholds are inconsistent: safe %.1f, debt trap %.1f", l.SafeDTI, l.DebtTrapDTI)
	}
	if l.MinCreditScore <= 0 || l.MinCreditScore > 900 {
		return fmt.Errorf("lending.min_credit_score must be within 1..900")
	}

	if cfg.Twilio.ValidateWebhook && cfg.Twilio.AuthToken == "" {
		return fmt.Errorf("twilio.auth_token is required when twilio.validate_webhook is set")
	}
	return nil
}
