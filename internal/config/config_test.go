package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 4, cfg.Auth.OTPLength)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL())
	assert.True(t, cfg.Auth.ExposeOTP)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 100.0, cfg.Pricing.TransportRatePerKm)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_OTP_LENGTH", "6")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "0")
	t.Setenv("PRICING_TRANSPORT_RATE_PER_KM", "12.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 6, cfg.Auth.OTPLength)
	assert.False(t, cfg.Auth.ExposeOTP)
	assert.Zero(t, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 12.5, cfg.Pricing.TransportRatePerKm)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Env: "development"},
			Auth:    AuthConfig{JWTSecret: "x", OTPLength: 4, OTPTTLSeconds: 60},
			Pricing: PricingConfig{TransportRatePerKm: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"short otp", func(c *Config) { c.Auth.OTPLength = 3 }, true},
		{"zero ttl", func(c *Config) { c.Auth.OTPTTLSeconds = 0 }, true},
		{"negative rate", func(c *Config) { c.Pricing.TransportRatePerKm = -1 }, true},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
