package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vtan/mmo/protocol"
)

func TestInterpolatedAt(t *testing.T) {
	base := time.Now()
	origin := protocol.Vec2{X: 2.5, Y: 2.5}

	testCases := []struct {
		name      string
		direction protocol.Direction
		elapsed   time.Duration
		velocity  float32
		want      protocol.Vec2
	}{
		{"standing", protocol.DirNone, time.Second, 3, origin},
		{"right half second", protocol.DirRight, 500 * time.Millisecond, 3, protocol.Vec2{X: 4, Y: 2.5}},
		{"up one second", protocol.DirUp, time.Second, 2, protocol.Vec2{X: 2.5, Y: 0.5}},
		{"down one tick", protocol.DirDown, 100 * time.Millisecond, 3, protocol.Vec2{X: 2.5, Y: 2.8}},
		{"clock went backwards", protocol.DirRight, -time.Second, 3, origin},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			movement := RemoteMovement{
				Position:   origin,
				Direction:  tc.direction,
				Look:       protocol.DirDown,
				ReceivedAt: base,
			}
			got := movement.InterpolatedAt(base.Add(tc.elapsed), tc.velocity)
			assert.InDelta(t, tc.want.X, got.X, 1e-4)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-4)
		})
	}
}

func TestNewPlayerStartsAtFullHealthFacingDown(t *testing.T) {
	now := time.Now()
	conn := NewPlayerConn(3)
	player := NewPlayer(PlayerRef{ID: 3, Conn: conn}, protocol.Vec2{X: 1.5, Y: 1.5}, 10, now)

	assert.Equal(t, ObjectID(3), player.ID)
	assert.Equal(t, int32(10), player.Health)
	assert.Equal(t, int32(10), player.MaxHealth)
	assert.Equal(t, protocol.DirNone, player.Remote.Direction)
	assert.Equal(t, protocol.DirDown, player.Remote.Look)
	assert.Equal(t, player.Local.Position, player.Remote.Position)
}
