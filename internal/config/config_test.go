package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.JWT.Secret = "test-jwt-secret"
	cfg.Security.QRSecret = "test-qr-secret"
	return cfg
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	require.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigRefusesMissingQRSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Security.QRSecret = ""

	err := validateConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "QR signing secret")
}

func TestValidateConfigRefusesPlaceholderQRSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Security.QRSecret = insecureQRSecret

	err := validateConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "placeholder")
}

func TestValidateConfigRefusesNonPositiveCooldown(t *testing.T) {
	cfg := validTestConfig()
	cfg.Security.CooldownMinutes = 0

	require.Error(t, validateConfig(cfg))
}

func TestValidateConfigRefusesUnknownTimezone(t *testing.T) {
	cfg := validTestConfig()
	cfg.Security.Timezone = "America/Nowhere"

	require.Error(t, validateConfig(cfg))
}

func TestCooldownWindow(t *testing.T) {
	cfg := validTestConfig()
	cfg.Security.CooldownMinutes = 15

	require.Equal(t, 15*time.Minute, cfg.CooldownWindow())
}

func TestLocation(t *testing.T) {
	cfg := validTestConfig()

	loc := cfg.Location()
	require.Equal(t, "America/Bogota", loc.String())
}
