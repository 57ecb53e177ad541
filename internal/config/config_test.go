package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("JWT_ISSUER", "probtc")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WS_ORIGIN", "*")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, c.JWTTTL)
	require.Equal(t, time.Second, c.TickInterval)
	require.Equal(t, "1.1", c.StartPrice.String())
	require.Equal(t, "100000", c.ContractSize.String())
	require.Equal(t, "0.01", c.MarginRate.String())
	require.Equal(t, "10000", c.StartingBalance.String())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("WS_ORIGIN", "")
	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP_ADDR")
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("START_PRICE", "2.5000")
	t.Setenv("MARGIN_RATE", "0.02")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, c.JWTTTL)
	require.Equal(t, 250*time.Millisecond, c.TickInterval)
	require.Equal(t, "2.5", c.StartPrice.String())
	require.Equal(t, "0.02", c.MarginRate.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("START_PRICE", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}
