package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromYAML(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return decode(v)
}

func TestDecode_Defaults(t *testing.T) {
	cfg, err := loadFromYAML(t, `
payment:
  paystack:
    secret_key: sk_test_x
`)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Organization.CutoffMonth)
	assert.Equal(t, 3, cfg.Organization.CutoffDay)
	assert.Equal(t, 30, cfg.Membership.ValidityDays)
	assert.Equal(t, "NGN", cfg.Membership.Currency)
	assert.Equal(t, 15*time.Second, cfg.Payment.RequestTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Worker.StaleAfter)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)

	policy, err := cfg.CutoffPolicy()
	require.NoError(t, err)
	assert.Equal(t, "07-03", policy.String())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "enabled gateway without secret",
			doc:  `payment: {paystack: {enabled: true}}`,
		},
		{
			name: "impossible cutoff date",
			doc: `
organization: {cutoff_month: 2, cutoff_day: 30}
payment: {paystack: {secret_key: sk}}`,
		},
		{
			name: "default provider disabled",
			doc: `
payment:
  default_provider: stripe
  paystack: {secret_key: sk}`,
		},
		{
			name: "unknown database driver",
			doc: `
database: {driver: postgres}
payment: {paystack: {secret_key: sk}}`,
		},
		{
			name: "bad currency",
			doc: `
membership: {currency: NAIRA}
payment: {paystack: {secret_key: sk}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFromYAML(t, tt.doc)
			assert.Error(t, err)
		})
	}
}

func TestDecode_EnvOverride(t *testing.T) {
	t.Setenv("MEMBERHUB_MEMBERSHIP_VALIDITY_DAYS", "45")
	t.Setenv("MEMBERHUB_PAYMENT_PAYSTACK_SECRET_KEY", "sk_env")

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEMBERHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Membership.ValidityDays)
	assert.Equal(t, "sk_env", cfg.Payment.Paystack.SecretKey)
}
