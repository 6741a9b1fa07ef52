// File: game/room_map.go
package game

import (
	"fmt"
	"math"

	"github.com/vtan/mmo/protocol"
	"github.com/vtan/mmo/utils"
)

// TilePos is an integer coordinate on the room grid.
type TilePos struct {
	X int
	Y int
}

// TileOf maps a world position to the tile containing it.
func TileOf(p protocol.Vec2) TilePos {
	return TilePos{
		X: int(math.Floor(float64(p.X))),
		Y: int(math.Floor(float64(p.Y))),
	}
}

// Center is the world position of the tile's center.
func (t TilePos) Center() protocol.Vec2 {
	return protocol.Vec2{X: float32(t.X) + 0.5, Y: float32(t.Y) + 0.5}
}

// Add offsets the tile by a direction's unit vector.
func (t TilePos) Add(d protocol.Direction) TilePos {
	v := d.Vector()
	return TilePos{X: t.X + int(v.X), Y: t.Y + int(v.Y)}
}

// Portal is a tile which, when stood on at tick boundary, transfers the
// player to another room.
type Portal struct {
	Tile           TilePos
	TargetRoom     RoomID
	TargetPosition protocol.Vec2
}

// RoomMap is the immutable description of one room: background layers, the
// collision bitmap and the portal list. Loaded once at startup and shared
// read-only by any number of room actors.
type RoomMap struct {
	ID      RoomID
	Width   int
	Height  int
	Layers  [][]uint16
	Collide []bool
	Portals []Portal
	Entry   protocol.Vec2
	Spawns  []MobSpawn
}

// Background layer tile values derived from the config tile rows.
const (
	tileFloor uint16 = 1
	tileWall  uint16 = 2
)

// BuildRoomMap derives a RoomMap from its config description.
func BuildRoomMap(rc utils.RoomConfig, templates map[string]*MobTemplate) (*RoomMap, error) {
	height := len(rc.Tiles)
	if height == 0 {
		return nil, fmt.Errorf("no tile rows")
	}
	width := len(rc.Tiles[0])

	layer := make([]uint16, width*height)
	collide := make([]bool, width*height)
	for y, row := range rc.Tiles {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			if row[x] == '#' {
				layer[y*width+x] = tileWall
				collide[y*width+x] = true
			} else {
				layer[y*width+x] = tileFloor
			}
		}
	}

	portals := make([]Portal, 0, len(rc.Portals))
	for _, pc := range rc.Portals {
		if pc.X < 0 || pc.X >= width || pc.Y < 0 || pc.Y >= height {
			return nil, fmt.Errorf("portal at (%d,%d) outside %dx%d map", pc.X, pc.Y, width, height)
		}
		portals = append(portals, Portal{
			Tile:           TilePos{X: pc.X, Y: pc.Y},
			TargetRoom:     RoomID(pc.TargetRoom),
			TargetPosition: protocol.Vec2{X: float32(pc.TargetX), Y: float32(pc.TargetY)},
		})
	}

	spawns := make([]MobSpawn, 0, len(rc.Spawns))
	for _, sc := range rc.Spawns {
		template, ok := templates[sc.Mob]
		if !ok {
			return nil, fmt.Errorf("unknown mob template %q", sc.Mob)
		}
		spawns = append(spawns, MobSpawn{
			Template: template,
			Position: protocol.Vec2{X: float32(sc.X), Y: float32(sc.Y)},
		})
	}

	m := &RoomMap{
		ID:      RoomID(rc.ID),
		Width:   width,
		Height:  height,
		Layers:  [][]uint16{layer},
		Collide: collide,
		Portals: portals,
		Entry:   protocol.Vec2{X: float32(rc.EntryX), Y: float32(rc.EntryY)},
		Spawns:  spawns,
	}
	if m.Collides(m.Entry) {
		return nil, fmt.Errorf("entry position (%v,%v) collides", rc.EntryX, rc.EntryY)
	}
	return m, nil
}

// CollidesTile reports whether the tile blocks movement. Tiles outside the
// map always collide.
func (m *RoomMap) CollidesTile(t TilePos) bool {
	if t.X < 0 || t.X >= m.Width || t.Y < 0 || t.Y >= m.Height {
		return true
	}
	return m.Collide[t.Y*m.Width+t.X]
}

// Collides reports whether the world position lies on a colliding tile.
func (m *RoomMap) Collides(p protocol.Vec2) bool {
	return m.CollidesTile(TileOf(p))
}

// PortalAt returns the portal on the given tile, if any.
func (m *RoomMap) PortalAt(t TilePos) (Portal, bool) {
	for _, portal := range m.Portals {
		if portal.Tile == t {
			return portal, true
		}
	}
	return Portal{}, false
}

// Sync builds the compact snapshot sent to joining players. Layers and
// collisions are run-length encoded; call once per room and reuse.
func (m *RoomMap) Sync() protocol.RoomSync {
	layers := make([][]protocol.RLEPair, 0, len(m.Layers))
	for _, layer := range m.Layers {
		layers = append(layers, protocol.EncodeRLE(layer))
	}

	collisionBits := make([]uint16, len(m.Collide))
	for i, c := range m.Collide {
		if c {
			collisionBits[i] = 1
		}
	}

	portals := make([]protocol.Portal, 0, len(m.Portals))
	for _, portal := range m.Portals {
		portals = append(portals, protocol.Portal{
			X:              uint32(portal.Tile.X),
			Y:              uint32(portal.Tile.Y),
			TargetRoom:     uint64(portal.TargetRoom),
			TargetPosition: portal.TargetPosition,
		})
	}

	return protocol.RoomSync{
		RoomID:     uint64(m.ID),
		Width:      uint32(m.Width),
		Height:     uint32(m.Height),
		Layers:     layers,
		Collisions: protocol.EncodeRLE(collisionBits),
		Portals:    portals,
	}
}
