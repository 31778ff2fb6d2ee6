package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is mysql in deployments; sqlite is accepted for local runs.
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN builds the driver connection string. The mysql form enables
// multiStatements because golang-migrate runs each script file as one Exec.
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" validate:"required"`
	Issuer           string `mapstructure:"issuer"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" validate:"min=1"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
	// PolicyPath points at the casbin model file.
	PolicyPath string `mapstructure:"policy_path"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// OrganizationConfig holds the organization-wide renewal date.
type OrganizationConfig struct {
	Name        string `mapstructure:"name"`
	CutoffMonth int    `mapstructure:"cutoff_month" validate:"min=1,max=12"`
	CutoffDay   int    `mapstructure:"cutoff_day" validate:"min=1,max=31"`
}

type MembershipConfig struct {
	// Fee is charged in major currency units.
	Fee             string `mapstructure:"fee" validate:"required"`
	Currency        string `mapstructure:"currency" validate:"len=3"`
	ValidityDays    int    `mapstructure:"validity_days" validate:"min=1"`
	UsePlanDuration bool   `mapstructure:"use_plan_duration"`
}

type PaystackConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	SecretKey string `mapstructure:"secret_key" validate:"required_if=Enabled true"`
	BaseURL   string `mapstructure:"base_url"`
}

type FlutterwaveConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	SecretKey   string `mapstructure:"secret_key" validate:"required_if=Enabled true"`
	WebhookHash string `mapstructure:"webhook_hash" validate:"required_if=Enabled true"`
	BaseURL     string `mapstructure:"base_url"`
}

type StripeConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	SecretKey     string `mapstructure:"secret_key" validate:"required_if=Enabled true"`
	WebhookSecret string `mapstructure:"webhook_secret" validate:"required_if=Enabled true"`
	CancelURL     string `mapstructure:"cancel_url"`
}

type PaymentConfig struct {
	DefaultProvider string            `mapstructure:"default_provider"`
	RequestTimeout  time.Duration     `mapstructure:"request_timeout"`
	RatePerSecond   float64           `mapstructure:"rate_per_second"`
	Paystack        PaystackConfig    `mapstructure:"paystack"`
	Flutterwave     FlutterwaveConfig `mapstructure:"flutterwave"`
	Stripe          StripeConfig      `mapstructure:"stripe"`
}

type WorkerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	StaleAfter    time.Duration `mapstructure:"stale_after"`
	BatchSize     int           `mapstructure:"batch_size"`
}

type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}
