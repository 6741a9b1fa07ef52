// File: game/combat.go
package game

import (
	"github.com/vtan/mmo/protocol"
)

// hitReaches reports whether an attack launched from a position facing a
// direction lands on the target: the target must be within range and in the
// half-plane the attacker faces. Standing exactly on the attacker's row or
// column never counts as in front.
func hitReaches(from protocol.Vec2, look protocol.Direction, rng float32, target protocol.Vec2) bool {
	if from.Dist(target) > rng {
		return false
	}
	switch look {
	case protocol.DirUp:
		return target.Y < from.Y
	case protocol.DirDown:
		return target.Y > from.Y
	case protocol.DirLeft:
		return target.X < from.X
	case protocol.DirRight:
		return target.X > from.X
	default:
		return false
	}
}
