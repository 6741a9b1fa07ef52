// File: game/messages.go
package game

import (
	"time"

	"github.com/vtan/mmo/protocol"
)

// --- Session → root messages ---

// ClientConnected announces a freshly handshaken socket to the root.
type ClientConnected struct {
	Conn *PlayerConn
}

// ClientDisconnected is sent exactly once when a session ends, whatever the
// reason.
type ClientDisconnected struct {
	ID ObjectID
}

// ClientCommand is one decoded wire command, tagged with the player id the
// session was assigned at connect.
type ClientCommand struct {
	ID      ObjectID
	Command protocol.PlayerCommand
}

// --- Root → room messages ---

// PlayerRef links a player id to its connection; the room builds the full
// Player from it.
type PlayerRef struct {
	ID   ObjectID
	Conn *PlayerConn
}

// PlayerConnected tells a room to host the player, standing at Position.
// Used both for fresh connects and for portal arrivals.
type PlayerConnected struct {
	Ref      PlayerRef
	Position protocol.Vec2
}

// PlayerDisconnected tells a room its player is gone.
type PlayerDisconnected struct {
	ID ObjectID
}

// PlayerMove carries a routed Move command.
type PlayerMove struct {
	ID        ObjectID
	Position  protocol.Vec2
	Direction protocol.Direction
	Look      protocol.Direction
}

// PlayerAttack carries a routed Attack command.
type PlayerAttack struct {
	ID ObjectID
}

// --- Room → root (upstream) messages ---

// PlayerLeftRoom reports that a player stepped onto a portal; the root
// rehomes the player into the target room.
type PlayerLeftRoom struct {
	From     RoomID
	PlayerID ObjectID
	To       RoomID
	Position protocol.Vec2
}

// --- Tick ---

// TickEvent advances a room's simulation by one step.
type TickEvent struct {
	Tick Tick
	Time time.Time
}
