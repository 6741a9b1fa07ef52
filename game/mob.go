// File: game/mob.go
package game

import (
	"time"

	"github.com/vtan/mmo/protocol"
)

// MobTemplate is the immutable combat and movement profile of a mob kind.
// Duration fields are already converted to ticks.
type MobTemplate struct {
	Name          string
	Animation     uint64
	Velocity      float32 // Tiles per second
	MovementRange float32 // Tether and aggro radius around the spawn
	AttackRange   float32
	MaxHealth     int32
	Damage        int32
	Telegraph     Tick
	AttackLength  Tick
	Cooldown      Tick
	RespawnRate   Tick
}

// MobSpawn anchors a mob instance: the template and the position it spawns
// at and is tethered to.
type MobSpawn struct {
	Template *MobTemplate
	Position protocol.Vec2
}

// Mob is one live hostile entity, owned by its room actor.
type Mob struct {
	ID             ObjectID
	Template       *MobTemplate
	Spawn          MobSpawn
	Movement       RemoteMovement
	AttackTarget   ObjectID // NoObject when idle
	Health         int32
	LastAttackedAt Tick
}

// NewMob builds a full-health mob standing at its spawn position.
func NewMob(id ObjectID, spawn MobSpawn, now time.Time) *Mob {
	return &Mob{
		ID:       id,
		Template: spawn.Template,
		Spawn:    spawn,
		Movement: RemoteMovement{
			Position:   spawn.Position,
			Direction:  protocol.DirNone,
			Look:       protocol.DirDown,
			ReceivedAt: now,
		},
		Health: spawn.Template.MaxHealth,
	}
}

// MobRespawn schedules a fresh mob at a spawn once the room reaches
// RespawnAt.
type MobRespawn struct {
	Spawn     MobSpawn
	RespawnAt Tick
}
