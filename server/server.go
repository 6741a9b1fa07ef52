// File: server/server.go
package server

import (
	"io"
	"net"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"

	"github.com/vtan/mmo/game"
	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/troupe"
)

// Server accepts websocket sessions and bridges them to the actor system:
// one reader loop decoding commands toward the root, one writer goroutine
// draining event frames from whichever room hosts the player.
type Server struct {
	srv    *game.ServerContext
	engine *troupe.Engine
	root   *troupe.PID
	log    *logrus.Entry
}

func New(srv *game.ServerContext, engine *troupe.Engine, root *troupe.PID) *Server {
	return &Server{
		srv:    srv,
		engine: engine,
		root:   root,
		log:    logrus.WithField("component", "server"),
	}
}

// WebsocketHandler returns the handler for the game socket endpoint.
func (s *Server) WebsocketHandler() websocket.Handler {
	return websocket.Handler(s.handleSession)
}

func (s *Server) handleSession(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	remote := ws.Request().RemoteAddr
	defer ws.Close()

	var frame []byte
	if err := websocket.Message.Receive(ws, &frame); err != nil {
		s.log.WithField("remote", remote).WithError(err).Warn("Connection closed before handshake")
		return
	}
	if !protocol.ParseHandshake(frame).IsValid() {
		s.log.WithField("remote", remote).Warn("Invalid handshake, dropping connection")
		return
	}

	id := s.srv.NextObjectID()
	conn := game.NewPlayerConn(id)
	log := s.log.WithFields(logrus.Fields{"player": id, "remote": remote})

	go s.writeLoop(ws, conn, log)

	s.engine.Send(s.root, game.ClientConnected{Conn: conn}, nil)
	defer func() {
		conn.Close()
		s.engine.Send(s.root, game.ClientDisconnected{ID: id}, nil)
		log.Info("Session ended")
	}()
	log.Info("Session started")

	s.readLoop(ws, id, conn, log)
}

// readLoop decodes inbound frames into commands for the root. Any decode
// error or socket close ends the session; the deferred disconnect in
// handleSession fires exactly once.
func (s *Server) readLoop(ws *websocket.Conn, id game.ObjectID, conn *game.PlayerConn, log *logrus.Entry) {
	for {
		select {
		case <-conn.Done():
			return
		default:
		}

		var frame []byte
		if err := websocket.Message.Receive(ws, &frame); err != nil {
			if !isClosedError(err) {
				log.WithError(err).Warn("Socket read failed")
			}
			return
		}
		commands, err := protocol.DecodeClientEnvelope(frame)
		if err != nil {
			log.WithError(err).Warn("Unparseable frame, dropping connection")
			return
		}
		for _, command := range commands {
			s.engine.Send(s.root, game.ClientCommand{ID: id, Command: command}, nil)
		}
	}
}

// writeLoop drains staged frames onto the socket until the connection is
// closed from either side.
func (s *Server) writeLoop(ws *websocket.Conn, conn *game.PlayerConn, log *logrus.Entry) {
	for {
		select {
		case frame := <-conn.Outbound():
			if err := websocket.Message.Send(ws, frame); err != nil {
				if !isClosedError(err) {
					log.WithError(err).Warn("Socket write failed")
				}
				conn.Close()
				ws.Close()
				return
			}
		case <-conn.Done():
			ws.Close()
			return
		}
	}
}

func isClosedError(err error) bool {
	if err == io.EOF {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return false
	}
	return strings.Contains(err.Error(), "closed")
}
