// File: game/room_actor.go
package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/troupe"
)

// RoomMailboxSize bounds the root and room actor mailboxes. A full mailbox
// indicates systemic overload and is logged loudly by the engine.
const RoomMailboxSize = 4096

// RoomActor owns one room's entire mutable state: its players, mobs and
// pending respawns. It drains control messages and tick events one at a
// time; after every handled message the writer is flushed to the hosted
// connections.
type RoomActor struct {
	srv    *ServerContext
	roomID RoomID
	root   *troupe.PID
	ticks  *TickSource

	roomMap  *RoomMap
	roomSync protocol.RoomSync

	players  map[ObjectID]*Player
	mobs     map[ObjectID]*Mob
	respawns []MobRespawn

	writer   *RoomWriter
	lastTick Tick
	started  bool

	healRate  Tick
	healAfter Tick

	rng         *rand.Rand
	stopCh      chan struct{}
	cancelTicks func()
	log         *logrus.Entry
}

// NewRoomActorProducer creates the spawn producer for one room.
func NewRoomActorProducer(srv *ServerContext, roomID RoomID, ticks *TickSource, root *troupe.PID) troupe.Producer {
	return func() troupe.Actor {
		return &RoomActor{
			srv:       srv,
			roomID:    roomID,
			root:      root,
			ticks:     ticks,
			roomMap:   srv.Maps[roomID],
			players:   make(map[ObjectID]*Player),
			mobs:      make(map[ObjectID]*Mob),
			writer:    NewRoomWriter(),
			healRate:  Tick(srv.Cfg.Ticks(srv.Cfg.HealRate)),
			healAfter: Tick(srv.Cfg.Ticks(srv.Cfg.HealAfter)),
			rng:       rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(roomID))),
			stopCh:    make(chan struct{}),
			log:       logrus.WithField("room", roomID),
		}
	}
}

func (a *RoomActor) Receive(ctx troupe.Context) {
	switch msg := ctx.Message().(type) {
	case troupe.Started:
		a.handleStarted(ctx)
	case troupe.Stopping:
		a.handleStopping()
	case troupe.Stopped:
	case PlayerConnected:
		a.handlePlayerConnected(msg)
	case PlayerDisconnected:
		a.handlePlayerDisconnected(msg)
	case PlayerMove:
		a.handlePlayerMove(msg)
	case PlayerAttack:
		a.handlePlayerAttack(msg)
	case TickEvent:
		a.handleTick(msg)
	default:
		a.log.WithField("type", fmt.Sprintf("%T", msg)).Warn("Room received unexpected message")
	}
	a.flush(ctx)
}

func (a *RoomActor) handleStarted(ctx troupe.Context) {
	if a.roomMap == nil {
		a.log.Error("Room has no map, stopping")
		ctx.Engine().Stop(ctx.Self())
		return
	}
	a.roomSync = a.roomMap.Sync()

	tickCh, cancel := a.ticks.Subscribe()
	a.cancelTicks = cancel
	engine, self := ctx.Engine(), ctx.Self()
	go func() {
		for {
			select {
			case event := <-tickCh:
				engine.Send(self, event, nil)
			case <-a.stopCh:
				return
			}
		}
	}()
	a.log.Info("Room started")
}

func (a *RoomActor) handleStopping() {
	if a.cancelTicks != nil {
		a.cancelTicks()
	}
	close(a.stopCh)
	a.srv.DropSnapshot(a.roomID)
	a.log.Info("Room stopping")
}

// flush drains the writer: event batches are delivered to the hosted
// connections in insertion order, then any upstream messages go to the root.
// A connection that cannot take a frame is closed; the session's teardown
// will report the disconnect through the root.
func (a *RoomActor) flush(ctx troupe.Context) {
	if a.writer.Empty() {
		return
	}
	batches, upstream, err := a.writer.Drain()
	if err != nil {
		a.log.WithError(err).Error("Failed to serialize event batch")
		return
	}
	ids := a.sortedPlayerIDs()
	for _, batch := range batches {
		for _, id := range ids {
			if !batch.Target.Includes(id) {
				continue
			}
			player, ok := a.players[id]
			if !ok {
				continue
			}
			if err := player.Conn.Enqueue(batch.Frame); err != nil {
				a.log.WithField("player", id).WithError(err).Warn("Dropping backlogged connection")
				player.Conn.Close()
			}
		}
	}
	for _, msg := range upstream {
		ctx.Engine().Send(a.root, msg, ctx.Self())
	}
}

func (a *RoomActor) sortedPlayerIDs() []ObjectID {
	ids := make([]ObjectID, 0, len(a.players))
	for id := range a.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (a *RoomActor) sortedMobIDs() []ObjectID {
	ids := make([]ObjectID, 0, len(a.mobs))
	for id := range a.mobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func movementChangedEvent(id ObjectID, position protocol.Vec2, direction, look protocol.Direction) protocol.ObjectMovementChanged {
	return protocol.ObjectMovementChanged{
		ObjectID:  uint64(id),
		Position:  position,
		Direction: direction,
		Look:      look,
	}
}

func (a *RoomActor) playerAppearedEvent(id ObjectID) protocol.ObjectAppeared {
	return protocol.ObjectAppeared{
		ObjectID:  uint64(id),
		Animation: a.srv.Cfg.PlayerAnimation,
		Velocity:  float32(a.srv.Cfg.PlayerVelocity),
	}
}

func mobAppearedEvent(mob *Mob) protocol.ObjectAppeared {
	return protocol.ObjectAppeared{
		ObjectID:  uint64(mob.ID),
		Animation: mob.Template.Animation,
		Velocity:  mob.Template.Velocity,
	}
}
