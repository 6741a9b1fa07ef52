package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEnvelopeRoundTrip(t *testing.T) {
	commands := []PlayerCommand{
		Ping{Sequence: 42},
		Move{
			RoomID:    3,
			Position:  Vec2{X: 1.5, Y: -2.25},
			Direction: DirRight,
			Look:      DirUp,
		},
		Move{
			RoomID:    3,
			Position:  Vec2{X: 0, Y: 0},
			Direction: DirNone,
			Look:      DirDown,
		},
		Attack{RoomID: 7},
	}

	payload, err := EncodeClientEnvelope(commands)
	require.NoError(t, err)
	decoded, err := DecodeClientEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, commands, decoded)
}

func TestServerEnvelopeRoundTrip(t *testing.T) {
	events := []PlayerEvent{
		Initial{
			PlayerID: 9,
			Config: ClientConfig{
				PlayerVelocity:  3,
				PlayerAnimation: 1,
				PlayerMaxHealth: 10,
			},
		},
		Pong{Sequence: 42, SentAt: 1700000000000},
		RoomEntered{Room: RoomSync{
			RoomID: 1,
			Width:  3,
			Height: 2,
			Layers: [][]RLEPair{
				{{Count: 4, Value: 1}, {Count: 2, Value: 2}},
			},
			Collisions: []RLEPair{{Count: 6, Value: 0}},
			Portals: []Portal{
				{X: 2, Y: 1, TargetRoom: 0, TargetPosition: Vec2{X: 1.5, Y: 1.5}},
			},
		}},
		ObjectAppeared{ObjectID: 5, Animation: 10, Velocity: 1.5},
		ObjectMovementChanged{ObjectID: 5, Position: Vec2{X: 4.5, Y: 3.5}, Direction: DirLeft, Look: DirLeft},
		ObjectAnimationAction{ObjectID: 5, Action: ActionAttack},
		ObjectHealthChanged{ObjectID: 5, Health: 7, Change: -3},
		ObjectDisappeared{ObjectID: 5},
	}

	payload, err := EncodeServerEnvelope(events)
	require.NoError(t, err)
	decoded, err := DecodeServerEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	payload, err := EncodeServerEnvelope([]PlayerEvent{ObjectDisappeared{ObjectID: 1}})
	require.NoError(t, err)
	_, err = DecodeServerEnvelope(append(payload, 0xFF))
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownTags(t *testing.T) {
	_, err := DecodeClientEnvelope([]byte{1, 0xEE})
	assert.Error(t, err)
	_, err = DecodeServerEnvelope([]byte{1, 0xEE})
	assert.Error(t, err)
}

func TestDecodeEmptyEnvelope(t *testing.T) {
	payload, err := EncodeClientEnvelope(nil)
	require.NoError(t, err)
	decoded, err := DecodeClientEnvelope(payload)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestHandshake(t *testing.T) {
	assert.True(t, NewPlayerHandshake().IsValid())
	assert.True(t, ParseHandshake([]byte("MMOWORLD")).IsValid())
	assert.False(t, ParseHandshake([]byte("MMOWORLX")).IsValid())
	assert.False(t, ParseHandshake([]byte("MMO")).IsValid())
	assert.False(t, ParseHandshake([]byte("MMOWORLDD")).IsValid())
	assert.False(t, ParseHandshake(nil).IsValid())
}
