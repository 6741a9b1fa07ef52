// File: game/snapshot.go
package game

import (
	"time"

	"github.com/vtan/mmo/protocol"
)

// EntitySnapshot is one entity's state in a debug snapshot.
type EntitySnapshot struct {
	ID        ObjectID           `json:"id"`
	Position  protocol.Vec2      `json:"position"`
	Direction protocol.Direction `json:"direction"`
	Health    int32              `json:"health"`
	MaxHealth int32              `json:"maxHealth"`
	Mob       string             `json:"mob,omitempty"`
}

// RoomSnapshot is a read-only copy of a room's state published after every
// tick for the debug endpoints. It is never consulted by the simulation.
type RoomSnapshot struct {
	RoomID  RoomID           `json:"roomId"`
	Tick    Tick             `json:"tick"`
	Taken   time.Time        `json:"taken"`
	Players []EntitySnapshot `json:"players"`
	Mobs    []EntitySnapshot `json:"mobs"`
}
