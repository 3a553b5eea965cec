package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-booking/internal/domain/booking"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUSINESS_HOURS", "")
	t.Setenv("CONFLICT_SCOPE", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()

	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, 30, cfg.SlotStepMinutes)
	assert.Equal(t, 3, cfg.StoreRetryAttempts)

	hours, err := cfg.Hours()
	require.NoError(t, err)
	_, open := hours.For(time.Saturday)
	assert.True(t, open)

	scope, err := cfg.Scope()
	require.NoError(t, err)
	assert.Equal(t, booking.ScopePerService, scope)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BUSINESS_HOURS", "mon-fri=10:00-19:00")
	t.Setenv("SLOT_STEP_MINUTES", "15")
	t.Setenv("CONFLICT_SCOPE", "per_business")
	t.Setenv("ENFORCE_BUSINESS_HOURS", "true")
	t.Setenv("STORE_RETRY_INITIAL_MS", "250")
	t.Setenv("OTEL_SAMPLING_RATIO", "7")

	cfg := Load()

	hours, err := cfg.Hours()
	require.NoError(t, err)
	assert.Equal(t, 15, hours.Step)
	_, open := hours.For(time.Saturday)
	assert.False(t, open)

	scope, err := cfg.Scope()
	require.NoError(t, err)
	assert.Equal(t, booking.ScopePerBusiness, scope)

	assert.True(t, cfg.EnforceBusinessHours)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreRetryInitial)
	assert.Equal(t, 1.0, cfg.OTelSampleRatio)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " https://a.example.com, ,https://b.example.com"}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins())

	assert.Empty(t, (&Config{}).AllowedOrigins())
}
