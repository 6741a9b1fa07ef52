// File: game/room_actor_tick.go
package game

import (
	"time"

	"github.com/vtan/mmo/protocol"
)

// handleTick advances the room by one simulation step: player motion and
// portal checks, then the mob pass, healing, respawns, and finally the
// structural removal of portal leavers. The first tick only anchors the
// clock and populates the mobs.
func (a *RoomActor) handleTick(msg TickEvent) {
	if !a.started {
		a.lastTick = msg.Tick
		a.started = true
		a.populateMobs(msg.Time)
		a.publishSnapshot(msg.Tick, msg.Time)
		return
	}
	if msg.Tick <= a.lastTick {
		return
	}

	now := msg.Time
	leavers := a.playerPass(now)
	a.mobPass(msg.Tick, now)
	a.healPass(msg.Tick)
	a.resolveRespawns(msg.Tick, now)

	// Leavers are removed before the flush resolves broadcast targets, so
	// they never see their own disappearance; their transition signal is the
	// target room's RoomEntered.
	for _, id := range leavers {
		delete(a.players, id)
	}
	for _, id := range leavers {
		a.writer.Push(ToAll(), protocol.ObjectDisappeared{ObjectID: uint64(id)})
	}

	a.lastTick = msg.Tick
	a.publishSnapshot(msg.Tick, now)
}

func (a *RoomActor) populateMobs(now time.Time) {
	for _, spawn := range a.roomMap.Spawns {
		a.spawnMob(spawn, now)
	}
}

func (a *RoomActor) spawnMob(spawn MobSpawn, now time.Time) {
	mob := NewMob(a.srv.NextObjectID(), spawn, now)
	a.mobs[mob.ID] = mob
	a.writer.Push(ToAll(), mobAppearedEvent(mob))
	a.writer.Push(ToAll(), movementChangedEvent(mob.ID, mob.Movement.Position, mob.Movement.Direction, mob.Movement.Look))
}

// playerPass advances every player along its declared motion. Stepping onto
// a portal tile turns into an upstream handoff; the structural removal is
// deferred to the caller. Movement broadcasts go out only when the player
// crosses a tile boundary, motion within a tile is dead reckoned by clients.
func (a *RoomActor) playerPass(now time.Time) []ObjectID {
	var leavers []ObjectID
	velocity := float32(a.srv.Cfg.PlayerVelocity)
	for _, id := range a.sortedPlayerIDs() {
		player := a.players[id]
		position := player.Remote.InterpolatedAt(now, velocity)
		tile := TileOf(position)

		if portal, ok := a.roomMap.PortalAt(tile); ok {
			a.writer.PushUpstream(PlayerLeftRoom{
				From:     a.roomID,
				PlayerID: id,
				To:       portal.TargetRoom,
				Position: portal.TargetPosition,
			})
			leavers = append(leavers, id)
			continue
		}
		if a.roomMap.CollidesTile(tile) {
			a.correctCollision(player, now)
			continue
		}

		crossed := TileOf(player.Local.Position) != tile
		player.Local = LocalMovement{Position: position, UpdatedAt: now}
		if crossed {
			a.writer.Push(ToAllExcept(id), movementChangedEvent(id, position, player.Remote.Direction, player.Remote.Look))
		}
	}
	return leavers
}

// mobPass runs each mob's step: advance, target selection, attack or chase,
// and idle wandering.
func (a *RoomActor) mobPass(tick Tick, now time.Time) {
	tickSeconds := float32(a.srv.Cfg.TickDuration)
	playerIDs := a.sortedPlayerIDs()
	for _, id := range a.sortedMobIDs() {
		mob := a.mobs[id]
		prevDirection := mob.Movement.Direction
		crossed := a.advanceMob(mob, tickSeconds, now)
		a.retargetMob(mob, playerIDs)

		if target, ok := a.players[mob.AttackTarget]; ok {
			targetPosition := target.Local.Position
			if mob.Movement.Position.Dist(targetPosition) <= mob.Template.AttackRange {
				mob.Movement.Direction = protocol.DirNone
				if tick-mob.LastAttackedAt >= mob.Template.Cooldown {
					a.mobAttack(mob, tick, playerIDs)
					mob.LastAttackedAt = tick
				}
			} else {
				a.chase(mob, targetPosition)
			}
		} else if crossed || !mob.Movement.Direction.Moving() {
			a.wander(mob)
		}

		if crossed || mob.Movement.Direction != prevDirection {
			a.writer.Push(ToAll(), movementChangedEvent(mob.ID, mob.Movement.Position, mob.Movement.Direction, mob.Movement.Look))
		}
	}
}

// advanceMob moves the mob one tick along its direction. A step that would
// collide or leave the tether halts the mob in place. Reports whether the
// mob crossed a tile boundary.
func (a *RoomActor) advanceMob(mob *Mob, tickSeconds float32, now time.Time) bool {
	if !mob.Movement.Direction.Moving() {
		mob.Movement.ReceivedAt = now
		return false
	}
	next := mob.Movement.Position.Add(mob.Movement.Direction.Vector().Scale(mob.Template.Velocity * tickSeconds))
	if a.roomMap.Collides(next) || next.Dist(mob.Spawn.Position) > mob.Template.MovementRange {
		mob.Movement.Direction = protocol.DirNone
		mob.Movement.ReceivedAt = now
		return false
	}
	crossed := TileOf(next) != TileOf(mob.Movement.Position)
	mob.Movement.Position = next
	mob.Movement.ReceivedAt = now
	return crossed
}

// retargetMob keeps the current attack target while it exists and stays in
// range; otherwise the first player within movement range becomes the new
// target.
func (a *RoomActor) retargetMob(mob *Mob, playerIDs []ObjectID) {
	if target, ok := a.players[mob.AttackTarget]; ok &&
		mob.Movement.Position.Dist(target.Local.Position) <= mob.Template.MovementRange {
		return
	}
	mob.AttackTarget = NoObject
	for _, id := range playerIDs {
		player, ok := a.players[id]
		if !ok {
			continue
		}
		if mob.Movement.Position.Dist(player.Local.Position) <= mob.Template.MovementRange {
			mob.AttackTarget = id
			return
		}
	}
}

// mobAttack swings at every player in front of the mob.
func (a *RoomActor) mobAttack(mob *Mob, tick Tick, playerIDs []ObjectID) {
	a.writer.Push(ToAll(), protocol.ObjectAnimationAction{
		ObjectID: uint64(mob.ID),
		Action:   protocol.ActionAttack,
	})
	for _, id := range playerIDs {
		player, ok := a.players[id]
		if !ok {
			continue
		}
		if !hitReaches(mob.Movement.Position, mob.Movement.Look, mob.Template.AttackRange, player.Local.Position) {
			continue
		}
		damage := mob.Template.Damage
		player.Health -= damage
		if player.Health < 0 {
			player.Health = 0
		}
		player.LastDamagedAt = tick
		a.writer.Push(ToAll(), protocol.ObjectHealthChanged{
			ObjectID: uint64(id),
			Health:   player.Health,
			Change:   -damage,
		})
	}
}

// chase points the mob at its target along the dominant axis, stopping if
// the next tile is blocked or outside the tether.
func (a *RoomActor) chase(mob *Mob, target protocol.Vec2) {
	delta := target.Sub(mob.Movement.Position)
	var direction protocol.Direction
	if abs32(delta.X) >= abs32(delta.Y) {
		if delta.X > 0 {
			direction = protocol.DirRight
		} else {
			direction = protocol.DirLeft
		}
	} else {
		if delta.Y > 0 {
			direction = protocol.DirDown
		} else {
			direction = protocol.DirUp
		}
	}
	if a.mobCanStep(mob, direction) {
		mob.Movement.Direction = direction
		mob.Movement.Look = direction
	} else {
		mob.Movement.Direction = protocol.DirNone
	}
}

// wander picks a uniformly random walkable cardinal within the tether.
func (a *RoomActor) wander(mob *Mob) {
	candidates := make([]protocol.Direction, 0, 4)
	for direction := protocol.DirRight; direction < protocol.DirNone; direction++ {
		if a.mobCanStep(mob, direction) {
			candidates = append(candidates, direction)
		}
	}
	if len(candidates) == 0 {
		mob.Movement.Direction = protocol.DirNone
		return
	}
	direction := candidates[a.rng.Intn(len(candidates))]
	mob.Movement.Direction = direction
	mob.Movement.Look = direction
}

func (a *RoomActor) mobCanStep(mob *Mob, direction protocol.Direction) bool {
	next := TileOf(mob.Movement.Position).Add(direction)
	if a.roomMap.CollidesTile(next) {
		return false
	}
	return next.Center().Dist(mob.Spawn.Position) <= mob.Template.MovementRange
}

// healPass restores health to players who stayed out of combat long enough.
// Runs on every heal_rate-th tick.
func (a *RoomActor) healPass(tick Tick) {
	if a.healRate == 0 || tick%a.healRate != 0 {
		return
	}
	for _, id := range a.sortedPlayerIDs() {
		player := a.players[id]
		if player.Health >= player.MaxHealth {
			continue
		}
		if tick-player.LastDamagedAt <= a.healAfter {
			continue
		}
		heal := a.srv.Cfg.HealAmount
		if player.Health+heal > player.MaxHealth {
			heal = player.MaxHealth - player.Health
		}
		player.Health += heal
		a.writer.Push(ToAll(), protocol.ObjectHealthChanged{
			ObjectID: uint64(id),
			Health:   player.Health,
			Change:   heal,
		})
	}
}

// resolveRespawns spawns a fresh mob for every due respawn entry.
func (a *RoomActor) resolveRespawns(tick Tick, now time.Time) {
	if len(a.respawns) == 0 {
		return
	}
	remaining := a.respawns[:0]
	for _, respawn := range a.respawns {
		if respawn.RespawnAt > tick {
			remaining = append(remaining, respawn)
			continue
		}
		a.spawnMob(respawn.Spawn, now)
	}
	a.respawns = remaining
}

func (a *RoomActor) publishSnapshot(tick Tick, now time.Time) {
	snap := RoomSnapshot{
		RoomID:  a.roomID,
		Tick:    tick,
		Taken:   now,
		Players: make([]EntitySnapshot, 0, len(a.players)),
		Mobs:    make([]EntitySnapshot, 0, len(a.mobs)),
	}
	for _, id := range a.sortedPlayerIDs() {
		player := a.players[id]
		snap.Players = append(snap.Players, EntitySnapshot{
			ID:        id,
			Position:  player.Local.Position,
			Direction: player.Remote.Direction,
			Health:    player.Health,
			MaxHealth: player.MaxHealth,
		})
	}
	for _, id := range a.sortedMobIDs() {
		mob := a.mobs[id]
		snap.Mobs = append(snap.Mobs, EntitySnapshot{
			ID:        id,
			Position:  mob.Movement.Position,
			Direction: mob.Movement.Direction,
			Health:    mob.Health,
			MaxHealth: mob.Template.MaxHealth,
			Mob:       mob.Template.Name,
		})
	}
	a.srv.PublishSnapshot(snap)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
