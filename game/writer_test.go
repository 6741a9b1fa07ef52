package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtan/mmo/protocol"
)

func disappeared(id uint64) protocol.PlayerEvent {
	return protocol.ObjectDisappeared{ObjectID: id}
}

func TestDrainGroupsMaximalSameTargetRuns(t *testing.T) {
	w := NewRoomWriter()
	w.Push(ToAll(), disappeared(1))
	w.Push(ToAll(), disappeared(2))
	w.Push(ToPlayer(7), disappeared(3))
	w.Push(ToPlayer(7), disappeared(4))
	w.Push(ToAll(), disappeared(5))

	batches, upstream, err := w.Drain()
	require.NoError(t, err)
	assert.Empty(t, upstream)
	require.Len(t, batches, 3)

	assert.Equal(t, ToAll(), batches[0].Target)
	assert.Equal(t, []protocol.PlayerEvent{disappeared(1), disappeared(2)}, batches[0].Events)
	assert.Equal(t, ToPlayer(7), batches[1].Target)
	assert.Equal(t, []protocol.PlayerEvent{disappeared(3), disappeared(4)}, batches[1].Events)
	assert.Equal(t, ToAll(), batches[2].Target)
	assert.Equal(t, []protocol.PlayerEvent{disappeared(5)}, batches[2].Events)

	for _, batch := range batches {
		decoded, err := protocol.DecodeServerEnvelope(batch.Frame)
		require.NoError(t, err)
		assert.Equal(t, batch.Events, decoded)
	}

	assert.True(t, w.Empty())
}

func TestDrainForwardsUpstreamAfterBatches(t *testing.T) {
	w := NewRoomWriter()
	w.Push(ToAll(), disappeared(1))
	left := PlayerLeftRoom{From: 0, PlayerID: 1, To: 1, Position: protocol.Vec2{X: 1.5, Y: 1.5}}
	w.PushUpstream(left)

	batches, upstream, err := w.Drain()
	require.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Equal(t, []PlayerLeftRoom{left}, upstream)
	assert.True(t, w.Empty())
}

func TestTargetIncludes(t *testing.T) {
	assert.True(t, ToAll().Includes(1))
	assert.True(t, ToPlayer(1).Includes(1))
	assert.False(t, ToPlayer(1).Includes(2))
	assert.False(t, ToAllExcept(1).Includes(1))
	assert.True(t, ToAllExcept(1).Includes(2))
}

// Each player's concatenated batch stream must equal the staged events
// filtered to that player, in insertion order, whatever the target mix.
func TestDrainPreservesPerPlayerOrder(t *testing.T) {
	players := []ObjectID{1, 2, 3}
	targets := []Target{ToAll(), ToPlayer(1), ToPlayer(2), ToAllExcept(1), ToAllExcept(3)}
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		w := NewRoomWriter()
		var staged []stagedEvent
		for i := 0; i < 30; i++ {
			target := targets[rng.Intn(len(targets))]
			event := disappeared(uint64(i))
			w.Push(target, event)
			staged = append(staged, stagedEvent{target: target, event: event})
		}

		batches, _, err := w.Drain()
		require.NoError(t, err)

		for _, player := range players {
			var want []protocol.PlayerEvent
			for _, se := range staged {
				if se.target.Includes(player) {
					want = append(want, se.event)
				}
			}
			var got []protocol.PlayerEvent
			for _, batch := range batches {
				if batch.Target.Includes(player) {
					got = append(got, batch.Events...)
				}
			}
			assert.Equal(t, want, got, "player %d", player)
		}
	}
}
