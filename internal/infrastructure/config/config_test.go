package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8400", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Tiers.Capacities["primary"])
	assert.Equal(t, -1, cfg.Tiers.Capacities["background"])
	assert.Equal(t, 30*time.Second, cfg.Tiers.Decay["ephemeral"])
	assert.Equal(t, 150*time.Millisecond, cfg.Flow.SettleDelay)
	assert.Equal(t, 2*time.Second, cfg.Maintenance.PruneInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LUMEN_PORT", "9000")
	t.Setenv("LUMEN_LOG_LEVEL", "debug")
	t.Setenv("LUMEN_FLOW_SETTLE_DELAY", "50ms")
	t.Setenv("LUMEN_TIER_CAPACITIES", "primary:1,ephemeral:2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Flow.SettleDelay)
	assert.Equal(t, map[string]int{"primary": 1, "ephemeral": 2}, cfg.Tiers.Capacities)
}

func TestLoadDefaultsWithoutEnvironment(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "FLOW_SETTLE_DELAY", "TIER_CAPACITIES"} {
		os.Unsetenv(key)
		os.Unsetenv("LUMEN_" + key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
	assert.Equal(t, Default().Tiers.Capacities, cfg.Tiers.Capacities)
}
func TestUnprefixedNamesStillAccepted(t *testing.T) {
	os.Unsetenv("LUMEN_PORT")
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
}
