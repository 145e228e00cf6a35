package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lending  LendingConfig  `mapstructure:"lending"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	AppName     string `mapstructure:"app_name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	AdminToken  string `mapstructure:"admin_token"`
}

type DatabaseConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	Name                   string `mapstructure:"name"`
	SSLMode                string `mapstructure:"sslmode"`
	InstanceConnectionName string `mapstructure:"instance_connection_name"`
}

// DSN returns the PostgreSQL connection string. Cloud SQL instances are
// reached through the unix socket directory.
func (d DatabaseConfig) DSN() string {
	if d.InstanceConnectionName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			d.InstanceConnectionName, d.User, d.Password, d.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type StorageConfig struct {
	UseMemory bool `mapstructure:"use_memory"`
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend"` // memory | redis
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LendingConfig carries the business thresholds used by the decision engines.
type LendingConfig struct {
	MaxLoanAmount      int64   `mapstructure:"max_loan_amount"`
	MinLoanAmount      int64   `mapstructure:"min_loan_amount"`
	IdiomDefaultAmount int64   `mapstructure:"idiom_default_amount"`
	SafeDTI            float64 `mapstructure:"safe_dti"`
	DebtTrapDTI        float64 `mapstructure:"debt_trap_dti"`
	MinCreditScore     int     `mapstructure:"min_credit_score"`
	MaxTenureMonths    int     `mapstructure:"max_tenure_months"`
}

type TwilioConfig struct {
	AccountSID      string `mapstructure:"account_sid"`
	AuthToken       string `mapstructure:"auth_token"`
	WhatsAppFrom    string `mapstructure:"whatsapp_from"`
	ValidateWebhook bool   `mapstructure:"validate_webhook"`
}

// Configured reports whether outbound WhatsApp messages can be sent.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type JobsConfig struct {
	FollowUpInterval time.Duration `mapstructure:"follow_up_interval"`
	IdleWindow       time.Duration `mapstructure:"idle_window"`
}
