// File: game/root_actor.go
package game

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/troupe"
)

type rootPlayer struct {
	roomID RoomID
	conn   *PlayerConn
}

// RootActor routes sessions to room actors. It owns the player → room index
// and the set of live rooms; rooms are spawned lazily on first reference and
// retired once no player maps to them.
type RootActor struct {
	srv   *ServerContext
	ticks *TickSource

	players map[ObjectID]rootPlayer
	rooms   map[RoomID]*troupe.PID

	log *logrus.Entry
}

// NewRootActorProducer creates the spawn producer for the root.
func NewRootActorProducer(srv *ServerContext, ticks *TickSource) troupe.Producer {
	return func() troupe.Actor {
		return &RootActor{
			srv:     srv,
			ticks:   ticks,
			players: make(map[ObjectID]rootPlayer),
			rooms:   make(map[RoomID]*troupe.PID),
			log:     logrus.WithField("component", "root"),
		}
	}
}

func (a *RootActor) Receive(ctx troupe.Context) {
	switch msg := ctx.Message().(type) {
	case troupe.Started:
		a.log.Info("Root started")
	case troupe.Stopping:
		a.handleStopping(ctx)
	case troupe.Stopped:
	case ClientConnected:
		a.handleClientConnected(ctx, msg)
	case ClientDisconnected:
		a.handleClientDisconnected(ctx, msg)
	case ClientCommand:
		a.handleClientCommand(ctx, msg)
	case PlayerLeftRoom:
		a.handlePlayerLeftRoom(ctx, msg)
	default:
		a.log.WithField("type", fmt.Sprintf("%T", msg)).Warn("Root received unexpected message")
	}
}

func (a *RootActor) handleStopping(ctx troupe.Context) {
	for id, room := range a.rooms {
		ctx.Engine().Stop(room)
		delete(a.rooms, id)
	}
	a.log.Info("Root stopping")
}

// handleClientConnected assigns the starting room, greets the session with
// Initial and hands the player to the room at its map entry position.
func (a *RootActor) handleClientConnected(ctx troupe.Context, msg ClientConnected) {
	id := msg.Conn.ID
	roomID := RoomID(a.srv.Cfg.StartingRoom)
	roomMap, ok := a.srv.Maps[roomID]
	if !ok {
		a.log.WithField("room", roomID).Error("Starting room has no map, dropping connection")
		msg.Conn.Close()
		return
	}

	initial, err := protocol.EncodeServerEnvelope([]protocol.PlayerEvent{
		protocol.Initial{PlayerID: uint64(id), Config: a.srv.ClientConfig()},
	})
	if err != nil {
		a.log.WithError(err).Error("Failed to serialize greeting, dropping connection")
		msg.Conn.Close()
		return
	}
	if err := msg.Conn.Enqueue(initial); err != nil {
		a.log.WithField("player", id).WithError(err).Warn("Dropping connection on greeting")
		msg.Conn.Close()
		return
	}

	a.players[id] = rootPlayer{roomID: roomID, conn: msg.Conn}
	room := a.ensureRoom(ctx, roomID)
	ctx.Engine().Send(room, PlayerConnected{
		Ref:      PlayerRef{ID: id, Conn: msg.Conn},
		Position: roomMap.Entry,
	}, ctx.Self())
	a.log.WithFields(logrus.Fields{"player": id, "room": roomID}).Info("Player connected")
}

func (a *RootActor) handleClientDisconnected(ctx troupe.Context, msg ClientDisconnected) {
	player, ok := a.players[msg.ID]
	if !ok {
		a.log.WithField("player", msg.ID).Error("Disconnect for unknown player")
		return
	}
	delete(a.players, msg.ID)
	if room, ok := a.rooms[player.roomID]; ok {
		ctx.Engine().Send(room, PlayerDisconnected{ID: msg.ID}, ctx.Self())
	}
	a.retireIfEmpty(ctx, player.roomID)
	a.log.WithField("player", msg.ID).Info("Player disconnected")
}

// handleClientCommand routes a decoded command. Ping is global and answered
// directly; room commands are forwarded only when the reported room matches
// the player's recorded room.
func (a *RootActor) handleClientCommand(ctx troupe.Context, msg ClientCommand) {
	player, ok := a.players[msg.ID]
	if !ok {
		a.log.WithField("player", msg.ID).Warn("Command from unknown player, dropping")
		return
	}

	switch command := msg.Command.(type) {
	case protocol.Ping:
		a.sendPong(player.conn, command)
	case protocol.Move:
		room, ok := a.roomFor(player, RoomID(command.RoomID))
		if !ok {
			a.log.WithFields(logrus.Fields{"player": msg.ID, "room": command.RoomID}).Warn("Move for wrong room, dropping")
			return
		}
		ctx.Engine().Send(room, PlayerMove{
			ID:        msg.ID,
			Position:  command.Position,
			Direction: command.Direction,
			Look:      command.Look,
		}, ctx.Self())
	case protocol.Attack:
		room, ok := a.roomFor(player, RoomID(command.RoomID))
		if !ok {
			a.log.WithFields(logrus.Fields{"player": msg.ID, "room": command.RoomID}).Warn("Attack for wrong room, dropping")
			return
		}
		ctx.Engine().Send(room, PlayerAttack{ID: msg.ID}, ctx.Self())
	default:
		a.log.WithField("type", fmt.Sprintf("%T", command)).Warn("Unknown command, dropping")
	}
}

// handlePlayerLeftRoom rehomes a portal traveller: remap, hand the player to
// the target room at the portal's destination, retire the source if empty.
func (a *RootActor) handlePlayerLeftRoom(ctx troupe.Context, msg PlayerLeftRoom) {
	player, ok := a.players[msg.PlayerID]
	if !ok {
		a.log.WithField("player", msg.PlayerID).Error("Portal crossing by unknown player")
		return
	}
	if player.roomID != msg.From {
		a.log.WithFields(logrus.Fields{
			"player": msg.PlayerID,
			"from":   msg.From,
			"mapped": player.roomID,
		}).Error("Portal crossing from a room the player is not mapped to")
	}

	player.roomID = msg.To
	a.players[msg.PlayerID] = player
	room := a.ensureRoom(ctx, msg.To)
	ctx.Engine().Send(room, PlayerConnected{
		Ref:      PlayerRef{ID: msg.PlayerID, Conn: player.conn},
		Position: msg.Position,
	}, ctx.Self())
	a.retireIfEmpty(ctx, msg.From)
	a.log.WithFields(logrus.Fields{"player": msg.PlayerID, "from": msg.From, "to": msg.To}).Info("Player crossed portal")
}

func (a *RootActor) sendPong(conn *PlayerConn, ping protocol.Ping) {
	frame, err := protocol.EncodeServerEnvelope([]protocol.PlayerEvent{
		protocol.Pong{
			Sequence: ping.Sequence,
			SentAt:   uint64(time.Now().UnixMilli()),
		},
	})
	if err != nil {
		a.log.WithError(err).Error("Failed to serialize pong")
		return
	}
	if err := conn.Enqueue(frame); err != nil {
		a.log.WithField("player", conn.ID).WithError(err).Warn("Dropping backlogged connection")
		conn.Close()
	}
}

func (a *RootActor) roomFor(player rootPlayer, claimed RoomID) (*troupe.PID, bool) {
	if player.roomID != claimed {
		return nil, false
	}
	room, ok := a.rooms[claimed]
	return room, ok
}

func (a *RootActor) ensureRoom(ctx troupe.Context, id RoomID) *troupe.PID {
	if room, ok := a.rooms[id]; ok {
		return room
	}
	props := troupe.NewProps(NewRoomActorProducer(a.srv, id, a.ticks, ctx.Self())).
		WithMailbox(RoomMailboxSize).
		WithName(fmt.Sprintf("room-%d", id))
	room := ctx.Engine().Spawn(props)
	a.rooms[id] = room
	a.log.WithField("room", id).Info("Room spawned")
	return room
}

func (a *RootActor) retireIfEmpty(ctx troupe.Context, id RoomID) {
	room, ok := a.rooms[id]
	if !ok {
		return
	}
	for _, player := range a.players {
		if player.roomID == id {
			return
		}
	}
	delete(a.rooms, id)
	ctx.Engine().Stop(room)
	a.log.WithField("room", id).Info("Room retired")
}
