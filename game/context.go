// File: game/context.go
package game

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/utils"
)

// ObjectID identifies any mobile entity. Players and mobs share the space;
// ids are minted from one monotonic counter and never reused.
type ObjectID uint64

// NoObject is the absent ObjectID.
const NoObject ObjectID = 0

// RoomID identifies a room map and its actor.
type RoomID uint64

// Tick is the discrete simulation time of a room.
type Tick uint32

// ServerContext is the read-only state shared by every actor: configuration,
// the loaded maps and mob templates, the object id counter and the debug
// snapshot registry.
type ServerContext struct {
	Cfg       utils.Config
	Maps      map[RoomID]*RoomMap
	Templates map[string]*MobTemplate

	nextObject atomic.Uint64

	snapshotMu sync.RWMutex
	snapshots  map[RoomID]RoomSnapshot
}

// NewServerContext builds the shared context: maps and templates are derived
// from the config once, with all durations converted to ticks.
func NewServerContext(cfg utils.Config) (*ServerContext, error) {
	templates := make(map[string]*MobTemplate, len(cfg.Mobs))
	for name, mc := range cfg.Mobs {
		templates[name] = &MobTemplate{
			Name:          name,
			Animation:     mc.Animation,
			Velocity:      float32(mc.Velocity),
			MovementRange: float32(mc.MovementRange),
			AttackRange:   float32(mc.AttackRange),
			MaxHealth:     mc.MaxHealth,
			Damage:        mc.Damage,
			Telegraph:     Tick(cfg.Ticks(mc.AttackTelegraph)),
			AttackLength:  Tick(cfg.Ticks(mc.AttackLength)),
			Cooldown:      Tick(cfg.Ticks(mc.AttackCooldown)),
			RespawnRate:   Tick(cfg.Ticks(mc.RespawnRate)),
		}
	}

	maps := make(map[RoomID]*RoomMap, len(cfg.Rooms))
	for _, rc := range cfg.Rooms {
		roomMap, err := BuildRoomMap(rc, templates)
		if err != nil {
			return nil, fmt.Errorf("room %d: %w", rc.ID, err)
		}
		maps[RoomID(rc.ID)] = roomMap
	}

	return &ServerContext{
		Cfg:       cfg,
		Maps:      maps,
		Templates: templates,
		snapshots: make(map[RoomID]RoomSnapshot),
	}, nil
}

// NextObjectID mints a globally unique object id.
func (s *ServerContext) NextObjectID() ObjectID {
	return ObjectID(s.nextObject.Add(1))
}

// ClientConfig is the static config block sent to clients in Initial.
func (s *ServerContext) ClientConfig() protocol.ClientConfig {
	return protocol.ClientConfig{
		PlayerVelocity:  float32(s.Cfg.PlayerVelocity),
		PlayerAnimation: s.Cfg.PlayerAnimation,
		PlayerMaxHealth: s.Cfg.PlayerMaxHealth,
	}
}

// PublishSnapshot stores a room's debug snapshot for the HTTP endpoint.
func (s *ServerContext) PublishSnapshot(snap RoomSnapshot) {
	s.snapshotMu.Lock()
	s.snapshots[snap.RoomID] = snap
	s.snapshotMu.Unlock()
}

// DropSnapshot removes a retired room's snapshot.
func (s *ServerContext) DropSnapshot(id RoomID) {
	s.snapshotMu.Lock()
	delete(s.snapshots, id)
	s.snapshotMu.Unlock()
}

// Snapshot returns the latest debug snapshot of a room, if any.
func (s *ServerContext) Snapshot(id RoomID) (RoomSnapshot, bool) {
	s.snapshotMu.RLock()
	defer s.snapshotMu.RUnlock()
	snap, ok := s.snapshots[id]
	return snap, ok
}

// Snapshots returns the latest debug snapshot of every active room.
func (s *ServerContext) Snapshots() []RoomSnapshot {
	s.snapshotMu.RLock()
	defer s.snapshotMu.RUnlock()
	snaps := make([]RoomSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		snaps = append(snaps, snap)
	}
	return snaps
}
