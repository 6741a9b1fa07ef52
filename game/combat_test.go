package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vtan/mmo/protocol"
)

func TestHitReaches(t *testing.T) {
	from := protocol.Vec2{X: 5, Y: 5}

	testCases := []struct {
		name   string
		look   protocol.Direction
		rng    float32
		target protocol.Vec2
		want   bool
	}{
		{"right in range", protocol.DirRight, 1.5, protocol.Vec2{X: 6, Y: 5}, true},
		{"right behind", protocol.DirRight, 1.5, protocol.Vec2{X: 4, Y: 5}, false},
		{"right out of range", protocol.DirRight, 1.5, protocol.Vec2{X: 7, Y: 5}, false},
		{"left in range", protocol.DirLeft, 1.5, protocol.Vec2{X: 4, Y: 5}, true},
		{"up in range", protocol.DirUp, 1.5, protocol.Vec2{X: 5, Y: 4}, true},
		{"up below", protocol.DirUp, 1.5, protocol.Vec2{X: 5, Y: 6}, false},
		{"down in range", protocol.DirDown, 1.5, protocol.Vec2{X: 5, Y: 6}, true},
		{"same spot", protocol.DirRight, 1.5, from, false},
		{"on the facing line", protocol.DirUp, 1.5, protocol.Vec2{X: 6, Y: 5}, false},
		{"diagonal within range", protocol.DirRight, 1.5, protocol.Vec2{X: 6, Y: 5.5}, true},
		{"diagonal out of range", protocol.DirRight, 1.5, protocol.Vec2{X: 6.4, Y: 6.4}, false},
		{"exactly at range", protocol.DirRight, 1, protocol.Vec2{X: 6, Y: 5}, true},
		{"no facing", protocol.DirNone, 1.5, protocol.Vec2{X: 6, Y: 5}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, hitReaches(from, tc.look, tc.rng, tc.target))
		})
	}
}
