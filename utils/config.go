// File: utils/config.go
package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configurable server parameters. Durations are expressed
// in seconds (float) and converted to integer ticks at load time via Ticks.
type Config struct {
	// Network
	ListenAddr string `toml:"listen_addr"`

	// Timing
	TickDuration    float64 `toml:"tick_duration"`    // Seconds per simulation tick
	ShutdownTimeout float64 `toml:"shutdown_timeout"` // Seconds to wait for actors on shutdown

	// Player
	PlayerVelocity    float64 `toml:"player_velocity"`     // Tiles per second
	PlayerAnimation   uint64  `toml:"player_animation"`    // Animation id sent to clients
	PlayerMaxHealth   int32   `toml:"player_max_health"`
	PlayerDamage      int32   `toml:"player_damage"`       // Damage per melee hit
	PlayerAttackRange float64 `toml:"player_attack_range"` // Tiles

	// Healing
	HealRate   float64 `toml:"heal_rate"`   // Seconds between heal pulses
	HealAfter  float64 `toml:"heal_after"`  // Seconds out of combat before healing starts
	HealAmount int32   `toml:"heal_amount"` // Health restored per pulse

	// World
	StartingRoom uint64               `toml:"starting_room"`
	Mobs         map[string]MobConfig `toml:"mobs"`
	Rooms        []RoomConfig         `toml:"rooms"`
}

// MobConfig is one mob template. Duration fields are seconds.
type MobConfig struct {
	Animation       uint64  `toml:"animation"`
	Velocity        float64 `toml:"velocity"`         // Tiles per second
	MovementRange   float64 `toml:"movement_range"`   // Tether and aggro radius, tiles
	AttackRange     float64 `toml:"attack_range"`     // Tiles
	MaxHealth       int32   `toml:"max_health"`
	Damage          int32   `toml:"damage"`
	AttackTelegraph float64 `toml:"attack_telegraph"` // Seconds
	AttackLength    float64 `toml:"attack_length"`    // Seconds
	AttackCooldown  float64 `toml:"attack_cooldown"`  // Seconds
	RespawnRate     float64 `toml:"respawn_rate"`     // Seconds
}

// RoomConfig describes one room map. Tiles is a list of rows; '#' collides,
// anything else is walkable.
type RoomConfig struct {
	ID      uint64         `toml:"id"`
	Tiles   []string       `toml:"tiles"`
	EntryX  float64        `toml:"entry_x"`
	EntryY  float64        `toml:"entry_y"`
	Portals []PortalConfig `toml:"portals"`
	Spawns  []SpawnConfig  `toml:"spawns"`
}

// PortalConfig places a portal on a tile and names its destination.
type PortalConfig struct {
	X          int     `toml:"x"`
	Y          int     `toml:"y"`
	TargetRoom uint64  `toml:"target_room"`
	TargetX    float64 `toml:"target_x"`
	TargetY    float64 `toml:"target_y"`
}

// SpawnConfig places a mob template instance in a room.
type SpawnConfig struct {
	Mob string  `toml:"mob"`
	X   float64 `toml:"x"`
	Y   float64 `toml:"y"`
}

// DefaultConfig returns a runnable two-room world.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8081",

		TickDuration:    0.1,
		ShutdownTimeout: 5,

		PlayerVelocity:    3,
		PlayerAnimation:   1,
		PlayerMaxHealth:   10,
		PlayerDamage:      2,
		PlayerAttackRange: 1.5,

		HealRate:   1,
		HealAfter:  5,
		HealAmount: 1,

		StartingRoom: 0,
		Mobs: map[string]MobConfig{
			"slime": {
				Animation:       10,
				Velocity:        1.5,
				MovementRange:   4,
				AttackRange:     1,
				MaxHealth:       10,
				Damage:          1,
				AttackTelegraph: 0.3,
				AttackLength:    0.3,
				AttackCooldown:  1.5,
				RespawnRate:     10,
			},
		},
		Rooms: []RoomConfig{
			{
				ID: 0,
				Tiles: []string{
					"############",
					"#........#.#",
					"#..........#",
					"#..........#",
					"#..........#",
					"#..........#",
					"#..........#",
					"############",
				},
				EntryX: 2.5, EntryY: 2.5,
				Portals: []PortalConfig{
					{X: 10, Y: 1, TargetRoom: 1, TargetX: 1.5, TargetY: 1.5},
				},
				Spawns: []SpawnConfig{
					{Mob: "slime", X: 6.5, Y: 4.5},
				},
			},
			{
				ID: 1,
				Tiles: []string{
					"########",
					"#......#",
					"#......#",
					"#......#",
					"#......#",
					"#......#",
					"########",
				},
				EntryX: 1.5, EntryY: 1.5,
				Portals: []PortalConfig{
					{X: 6, Y: 5, TargetRoom: 0, TargetX: 2.5, TargetY: 2.5},
				},
				Spawns: []SpawnConfig{
					{Mob: "slime", X: 4.5, Y: 3.5},
				},
			},
		},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// TickInterval is the tick duration as a time.Duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickDuration * float64(time.Second))
}

// Ticks converts a duration in seconds into whole ticks, at least 1 for any
// positive duration.
func (c Config) Ticks(seconds float64) uint32 {
	if seconds <= 0 {
		return 0
	}
	ticks := math.Round(seconds / c.TickDuration)
	if ticks < 1 {
		return 1
	}
	if ticks > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ticks)
}

// Validate checks the parts of the config the simulation cannot limp along
// without.
func (c Config) Validate() error {
	if c.TickDuration <= 0 {
		return fmt.Errorf("tick_duration must be positive, got %v", c.TickDuration)
	}
	if c.PlayerVelocity <= 0 {
		return fmt.Errorf("player_velocity must be positive, got %v", c.PlayerVelocity)
	}
	if c.PlayerMaxHealth <= 0 {
		return fmt.Errorf("player_max_health must be positive, got %d", c.PlayerMaxHealth)
	}
	if len(c.Rooms) == 0 {
		return fmt.Errorf("at least one room is required")
	}
	roomIDs := make(map[uint64]bool, len(c.Rooms))
	for _, room := range c.Rooms {
		if roomIDs[room.ID] {
			return fmt.Errorf("duplicate room id %d", room.ID)
		}
		roomIDs[room.ID] = true
		if len(room.Tiles) == 0 {
			return fmt.Errorf("room %d has no tiles", room.ID)
		}
		width := len(room.Tiles[0])
		for y, row := range room.Tiles {
			if len(row) != width {
				return fmt.Errorf("room %d row %d has width %d, want %d", room.ID, y, len(row), width)
			}
		}
		for _, spawn := range room.Spawns {
			if _, ok := c.Mobs[spawn.Mob]; !ok {
				return fmt.Errorf("room %d references unknown mob template %q", room.ID, spawn.Mob)
			}
		}
	}
	if !roomIDs[c.StartingRoom] {
		return fmt.Errorf("starting_room %d does not exist", c.StartingRoom)
	}
	for _, room := range c.Rooms {
		for _, portal := range room.Portals {
			if !roomIDs[portal.TargetRoom] {
				return fmt.Errorf("room %d portal targets unknown room %d", room.ID, portal.TargetRoom)
			}
		}
	}
	return nil
}
