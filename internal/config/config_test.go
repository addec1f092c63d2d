package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GATEWAY_KEY", "secret")
	t.Setenv("LLM_TIMEOUT", "bogus")

	cfg := Load()

	assert.Equal(t, "secret", cfg.Gateway.SharedKey)
	assert.Equal(t, 120*time.Second, cfg.Ai.RequestTimeout)
	assert.InDelta(t, 0.03, cfg.Telemetry.TemperatureScale, 1e-9)
	assert.InDelta(t, -31.94, cfg.Telemetry.TemperatureOffset, 1e-9)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TEMPERATURE_SCALE", "0.05")
	t.Setenv("TEMPERATURE_OFFSET", "-20")
	t.Setenv("PEER_SEND_BUFFER", "8")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.InDelta(t, 0.05, cfg.Telemetry.TemperatureScale, 1e-9)
	assert.InDelta(t, -20.0, cfg.Telemetry.TemperatureOffset, 1e-9)
	assert.Equal(t, 8, cfg.Gateway.PeerSendBuffer)
	assert.Equal(t, 15*time.Second, cfg.Ai.RequestTimeout)
	assert.True(t, cfg.IsProduction())
}
