// File: game/room_actor_players.go
package game

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vtan/mmo/protocol"
)

// handlePlayerConnected hosts a player, either freshly connected or arriving
// through a portal. The appearance broadcast is staged before the insertion
// but resolved at flush time, so the joiner observes its own appearance ahead
// of the room snapshot.
func (a *RoomActor) handlePlayerConnected(msg PlayerConnected) {
	now := time.Now()
	if _, ok := a.players[msg.Ref.ID]; ok {
		a.log.WithField("player", msg.Ref.ID).Error("Player already hosted, replacing")
	}
	player := NewPlayer(msg.Ref, msg.Position, a.srv.Cfg.PlayerMaxHealth, now)

	a.writer.Push(ToAll(), a.playerAppearedEvent(player.ID))
	a.writer.Push(ToAll(), movementChangedEvent(player.ID, player.Remote.Position, player.Remote.Direction, player.Remote.Look))

	a.players[player.ID] = player
	a.writer.Push(ToPlayer(player.ID), protocol.RoomEntered{Room: a.roomSync})

	for _, id := range a.sortedPlayerIDs() {
		if id == player.ID {
			continue
		}
		other := a.players[id]
		position := other.Remote.InterpolatedAt(now, float32(a.srv.Cfg.PlayerVelocity))
		a.writer.Push(ToPlayer(player.ID), a.playerAppearedEvent(id))
		a.writer.Push(ToPlayer(player.ID), movementChangedEvent(id, position, other.Remote.Direction, other.Remote.Look))
	}
	for _, id := range a.sortedMobIDs() {
		mob := a.mobs[id]
		a.writer.Push(ToPlayer(player.ID), mobAppearedEvent(mob))
		a.writer.Push(ToPlayer(player.ID), movementChangedEvent(id, mob.Movement.Position, mob.Movement.Direction, mob.Movement.Look))
	}

	a.log.WithField("player", player.ID).Info("Player entered room")
}

func (a *RoomActor) handlePlayerDisconnected(msg PlayerDisconnected) {
	if _, ok := a.players[msg.ID]; !ok {
		a.log.WithField("player", msg.ID).Error("Disconnect for player not hosted here")
		return
	}
	delete(a.players, msg.ID)
	a.writer.Push(ToAll(), protocol.ObjectDisappeared{ObjectID: uint64(msg.ID)})
	a.log.WithField("player", msg.ID).Info("Player left room")
}

// handlePlayerMove applies a client-declared motion intent. A declared
// position on a colliding tile is rejected with a snap-back to the last
// authoritative position.
func (a *RoomActor) handlePlayerMove(msg PlayerMove) {
	player, ok := a.players[msg.ID]
	if !ok {
		a.log.WithField("player", msg.ID).Error("Move for player not hosted here")
		return
	}
	now := time.Now()
	player.Remote = RemoteMovement{
		Position:   msg.Position,
		Direction:  msg.Direction,
		Look:       msg.Look,
		ReceivedAt: now,
	}
	if a.roomMap.Collides(msg.Position) {
		a.correctCollision(player, now)
		return
	}
	player.Local = LocalMovement{Position: msg.Position, UpdatedAt: now}
	a.writer.Push(ToAllExcept(player.ID), movementChangedEvent(player.ID, msg.Position, msg.Direction, msg.Look))
}

// correctCollision snaps the player back to its last valid position. The
// broadcast goes to every player including the offender, whose client resets
// its prediction from it.
func (a *RoomActor) correctCollision(player *Player, now time.Time) {
	player.Remote = RemoteMovement{
		Position:   player.Local.Position,
		Direction:  protocol.DirNone,
		Look:       player.Remote.Look,
		ReceivedAt: now,
	}
	a.writer.Push(ToAll(), movementChangedEvent(player.ID, player.Local.Position, protocol.DirNone, player.Remote.Look))
}

// handlePlayerAttack swings at every mob in front of the player. Mobs
// reduced to zero health disappear immediately and are scheduled to respawn.
func (a *RoomActor) handlePlayerAttack(msg PlayerAttack) {
	player, ok := a.players[msg.ID]
	if !ok {
		a.log.WithField("player", msg.ID).Error("Attack for player not hosted here")
		return
	}
	a.writer.Push(ToAllExcept(player.ID), protocol.ObjectAnimationAction{
		ObjectID: uint64(player.ID),
		Action:   protocol.ActionAttack,
	})

	attackRange := float32(a.srv.Cfg.PlayerAttackRange)
	for _, id := range a.sortedMobIDs() {
		mob := a.mobs[id]
		if !hitReaches(player.Local.Position, player.Remote.Look, attackRange, mob.Movement.Position) {
			continue
		}
		damage := a.srv.Cfg.PlayerDamage
		mob.Health -= damage
		if mob.Health < 0 {
			mob.Health = 0
		}
		a.writer.Push(ToAll(), protocol.ObjectHealthChanged{
			ObjectID: uint64(mob.ID),
			Health:   mob.Health,
			Change:   -damage,
		})
		if mob.Health == 0 {
			delete(a.mobs, id)
			a.writer.Push(ToAll(), protocol.ObjectDisappeared{ObjectID: uint64(mob.ID)})
			a.respawns = append(a.respawns, MobRespawn{
				Spawn:     mob.Spawn,
				RespawnAt: a.lastTick + mob.Template.RespawnRate,
			})
			a.log.WithFields(logrus.Fields{
				"mob":    mob.ID,
				"player": player.ID,
			}).Info("Mob killed")
		}
	}
}
