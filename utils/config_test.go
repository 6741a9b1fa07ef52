package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval())
}

func TestTicksConversion(t *testing.T) {
	cfg := DefaultConfig() // tick_duration = 0.1
	testCases := []struct {
		seconds float64
		ticks   uint32
	}{
		{0, 0},
		{-1, 0},
		{0.01, 1}, // Sub-tick durations round up to one tick
		{0.1, 1},
		{0.14, 1},
		{0.15, 2},
		{1, 10},
		{5, 50},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.ticks, cfg.Ticks(tc.seconds), "Ticks(%v)", tc.seconds)
	}
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	testCases := []struct {
		name  string
		mutate func(*Config)
	}{
		{"zero tick duration", func(c *Config) { c.TickDuration = 0 }},
		{"zero velocity", func(c *Config) { c.PlayerVelocity = 0 }},
		{"zero max health", func(c *Config) { c.PlayerMaxHealth = 0 }},
		{"no rooms", func(c *Config) { c.Rooms = nil }},
		{"duplicate room ids", func(c *Config) { c.Rooms[1].ID = c.Rooms[0].ID }},
		{"ragged tiles", func(c *Config) { c.Rooms[0].Tiles[2] = "##" }},
		{"unknown mob", func(c *Config) { c.Rooms[0].Spawns[0].Mob = "dragon" }},
		{"missing starting room", func(c *Config) { c.StartingRoom = 99 }},
		{"portal to nowhere", func(c *Config) { c.Rooms[0].Portals[0].TargetRoom = 99 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
