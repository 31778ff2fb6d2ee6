package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	sharedConfig "github.com/memberhub/memberhub/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Auth         sharedConfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Organization sharedConfig.OrganizationConfig `mapstructure:"organization"`
	Membership   sharedConfig.MembershipConfig   `mapstructure:"membership"`
	Payment      sharedConfig.PaymentConfig      `mapstructure:"payment"`
	Worker       sharedConfig.WorkerConfig       `mapstructure:"worker"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("MEMBERHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = cfg
	appConfigMu.Unlock()

	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.CutoffPolicy(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	p := cfg.Payment
	enabled := map[string]bool{
		"paystack":    p.Paystack.Enabled,
		"flutterwave": p.Flutterwave.Enabled,
		"stripe":      p.Stripe.Enabled,
	}
	if p.DefaultProvider != "" && !enabled[p.DefaultProvider] {
		return fmt.Errorf("invalid config: default payment provider %q is not enabled", p.DefaultProvider)
	}
	return nil
}

// CutoffPolicy builds the organization-wide expiration policy.
func (c *Config) CutoffPolicy() (subscription.CutoffPolicy, error) {
	return subscription.NewCutoffPolicy(c.Organization.CutoffMonth, c.Organization.CutoffDay)
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.timezone", "Africa/Lagos")

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "memberhub_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "memberhub")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)
	v.SetDefault("auth.policy_path", "configs/rbac_model.conf")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@memberhub.local")
	v.SetDefault("email.from_name", "MemberHub")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("organization.name", "MemberHub")
	v.SetDefault("organization.cutoff_month", 7)
	v.SetDefault("organization.cutoff_day", 3)

	v.SetDefault("membership.fee", "5000")
	v.SetDefault("membership.currency", "NGN")
	v.SetDefault("membership.validity_days", 30)
	v.SetDefault("membership.use_plan_duration", false)

	// Payment defaults
	v.SetDefault("payment.default_provider", "paystack")
	v.SetDefault("payment.request_timeout", "15s")
	v.SetDefault("payment.rate_per_second", 10)
	v.SetDefault("payment.paystack.enabled", true)
	v.SetDefault("payment.paystack.secret_key", "")
	v.SetDefault("payment.paystack.base_url", "https://api.paystack.co")
	v.SetDefault("payment.flutterwave.enabled", false)
	v.SetDefault("payment.flutterwave.secret_key", "")
	v.SetDefault("payment.flutterwave.webhook_hash", "")
	v.SetDefault("payment.flutterwave.base_url", "https://api.flutterwave.com/v3")
	v.SetDefault("payment.stripe.enabled", false)
	v.SetDefault("payment.stripe.secret_key", "")
	v.SetDefault("payment.stripe.webhook_secret", "")
	v.SetDefault("payment.stripe.cancel_url", "")

	// Worker defaults
	v.SetDefault("worker.sweep_interval", "5m")
	v.SetDefault("worker.stale_after", "15m")
	v.SetDefault("worker.batch_size", 100)

	v.SetDefault("rate_limit.limit", 30)
	v.SetDefault("rate_limit.window", "1m")
}
