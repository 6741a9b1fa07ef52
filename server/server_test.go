package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/vtan/mmo/game"
	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/troupe"
	"github.com/vtan/mmo/utils"
)

func startTestServer(t *testing.T) (*httptest.Server, func() *websocket.Conn) {
	t.Helper()
	cfg := utils.DefaultConfig()
	for i := range cfg.Rooms {
		cfg.Rooms[i].Spawns = nil
	}
	srv, err := game.NewServerContext(cfg)
	require.NoError(t, err)
	ticks, err := game.NewTickSource(10 * time.Millisecond)
	require.NoError(t, err)
	ticks.Run()
	engine := troupe.NewEngine()
	root := engine.Spawn(troupe.NewProps(game.NewRootActorProducer(srv, ticks)).
		WithMailbox(game.RoomMailboxSize).
		WithName("root"))
	require.NotNil(t, root)

	gameServer := New(srv, engine, root)
	ts := httptest.NewServer(gameServer.WebsocketHandler())
	t.Cleanup(func() {
		ts.Close()
		engine.Shutdown(time.Second)
		ticks.Stop()
	})

	dial := func() *websocket.Conn {
		url := "ws" + strings.TrimPrefix(ts.URL, "http")
		ws, err := websocket.Dial(url, "", ts.URL)
		require.NoError(t, err)
		ws.PayloadType = websocket.BinaryFrame
		return ws
	}
	return ts, dial
}

func receiveEvents(t *testing.T, ws *websocket.Conn) []protocol.PlayerEvent {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))
	var frame []byte
	require.NoError(t, websocket.Message.Receive(ws, &frame))
	events, err := protocol.DecodeServerEnvelope(frame)
	require.NoError(t, err)
	return events
}

func TestSessionHandshakeAndGreeting(t *testing.T) {
	_, dial := startTestServer(t)
	ws := dial()
	defer ws.Close()

	handshake := protocol.NewPlayerHandshake()
	require.NoError(t, websocket.Message.Send(ws, handshake.Bytes[:]))

	events := receiveEvents(t, ws)
	require.NotEmpty(t, events)
	initial, ok := events[0].(protocol.Initial)
	require.True(t, ok)
	assert.NotZero(t, initial.PlayerID)
	assert.Equal(t, float32(3), initial.Config.PlayerVelocity)
}

func TestSessionRejectsBadHandshake(t *testing.T) {
	_, dial := startTestServer(t)
	ws := dial()
	defer ws.Close()

	require.NoError(t, websocket.Message.Send(ws, []byte("NOTMAGIC!")))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))
	var frame []byte
	err := websocket.Message.Receive(ws, &frame)
	assert.Error(t, err, "the server should close the connection")
}

func TestSessionPingPong(t *testing.T) {
	_, dial := startTestServer(t)
	ws := dial()
	defer ws.Close()

	handshake := protocol.NewPlayerHandshake()
	require.NoError(t, websocket.Message.Send(ws, handshake.Bytes[:]))
	receiveEvents(t, ws) // Initial

	frame, err := protocol.EncodeClientEnvelope([]protocol.PlayerCommand{protocol.Ping{Sequence: 7}})
	require.NoError(t, err)
	require.NoError(t, websocket.Message.Send(ws, frame))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, event := range receiveEvents(t, ws) {
			if pong, ok := event.(protocol.Pong); ok {
				assert.Equal(t, uint32(7), pong.Sequence)
				return
			}
		}
	}
	t.Fatal("no pong received")
}
