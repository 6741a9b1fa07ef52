package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/troupe"
	"github.com/vtan/mmo/utils"
)

// stubContext drives an actor's Receive directly, without an engine. Only
// usable for handlers that do not touch the engine.
type stubContext struct {
	message interface{}
}

func (c stubContext) Engine() *troupe.Engine { return nil }
func (c stubContext) Self() *troupe.PID      { return nil }
func (c stubContext) Sender() *troupe.PID    { return nil }
func (c stubContext) Message() interface{}   { return c.message }

// testConfig is the default world without mobs, so scenarios stay free of
// AI interference unless they opt back in.
func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	for i := range cfg.Rooms {
		cfg.Rooms[i].Spawns = nil
	}
	return cfg
}

func newTestRoomActor(t *testing.T, cfg utils.Config, roomID RoomID) (*RoomActor, *ServerContext) {
	t.Helper()
	srv, err := NewServerContext(cfg)
	require.NoError(t, err)
	ticks, err := NewTickSource(cfg.TickInterval())
	require.NoError(t, err)
	actor := NewRoomActorProducer(srv, roomID, ticks, nil)().(*RoomActor)
	actor.roomSync = actor.roomMap.Sync()
	return actor, srv
}

func connectPlayer(actor *RoomActor, id ObjectID, position protocol.Vec2) *PlayerConn {
	conn := NewPlayerConn(id)
	actor.Receive(stubContext{PlayerConnected{
		Ref:      PlayerRef{ID: id, Conn: conn},
		Position: position,
	}})
	return conn
}

func tickRoom(actor *RoomActor, tick Tick) {
	actor.Receive(stubContext{TickEvent{Tick: tick, Time: time.Now()}})
}

// drainEvents decodes every frame currently buffered on the connection.
func drainEvents(t *testing.T, conn *PlayerConn) []protocol.PlayerEvent {
	t.Helper()
	var events []protocol.PlayerEvent
	for {
		select {
		case frame := <-conn.Outbound():
			decoded, err := protocol.DecodeServerEnvelope(frame)
			require.NoError(t, err)
			events = append(events, decoded...)
		default:
			return events
		}
	}
}

func healthChanges(events []protocol.PlayerEvent) []protocol.ObjectHealthChanged {
	var changes []protocol.ObjectHealthChanged
	for _, event := range events {
		if change, ok := event.(protocol.ObjectHealthChanged); ok {
			changes = append(changes, change)
		}
	}
	return changes
}
