// File: game/player.go
package game

import (
	"time"

	"github.com/vtan/mmo/protocol"
)

// LocalMovement is the server's authoritative interpolated position.
type LocalMovement struct {
	Position  protocol.Vec2
	UpdatedAt time.Time
}

// RemoteMovement is the last declared motion intent: client-declared for
// players, AI-chosen for mobs.
type RemoteMovement struct {
	Position   protocol.Vec2
	Direction  protocol.Direction // DirNone when standing
	Look       protocol.Direction
	ReceivedAt time.Time
}

// InterpolatedAt advances the declared position along the declared direction
// at the given velocity. With no direction the declared position stands.
func (m RemoteMovement) InterpolatedAt(now time.Time, velocity float32) protocol.Vec2 {
	if !m.Direction.Moving() {
		return m.Position
	}
	elapsed := float32(now.Sub(m.ReceivedAt).Seconds())
	if elapsed <= 0 {
		return m.Position
	}
	return m.Position.Add(m.Direction.Vector().Scale(velocity * elapsed))
}

// Player is one connected player's state inside a room. It is owned
// exclusively by the hosting room actor.
type Player struct {
	ID            ObjectID
	Conn          *PlayerConn
	Local         LocalMovement
	Remote        RemoteMovement
	Health        int32
	MaxHealth     int32
	LastDamagedAt Tick
}

// NewPlayer builds a freshly entered player standing at the given position,
// facing down, at full health.
func NewPlayer(ref PlayerRef, position protocol.Vec2, maxHealth int32, now time.Time) *Player {
	return &Player{
		ID:   ref.ID,
		Conn: ref.Conn,
		Local: LocalMovement{
			Position:  position,
			UpdatedAt: now,
		},
		Remote: RemoteMovement{
			Position:   position,
			Direction:  protocol.DirNone,
			Look:       protocol.DirDown,
			ReceivedAt: now,
		},
		Health:    maxHealth,
		MaxHealth: maxHealth,
	}
}
