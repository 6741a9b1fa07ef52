// File: render/ascii.go
package render

import (
	"strings"

	"github.com/vtan/mmo/game"
)

// Tile glyphs, lighter to heavier.
const (
	glyphFloor  = '.'
	glyphWall   = '#'
	glyphPortal = 'O'
	glyphPlayer = '@'
	glyphMob    = 'm'
)

// RoomToASCII draws a room's collision grid with the entities from the
// latest debug snapshot overlaid. Entities outside the grid are skipped.
func RoomToASCII(roomMap *game.RoomMap, snap game.RoomSnapshot) string {
	grid := make([][]rune, roomMap.Height)
	for y := 0; y < roomMap.Height; y++ {
		grid[y] = make([]rune, roomMap.Width)
		for x := 0; x < roomMap.Width; x++ {
			if roomMap.CollidesTile(game.TilePos{X: x, Y: y}) {
				grid[y][x] = glyphWall
			} else {
				grid[y][x] = glyphFloor
			}
		}
	}
	for _, portal := range roomMap.Portals {
		plot(grid, portal.Tile, glyphPortal)
	}
	for _, mob := range snap.Mobs {
		plot(grid, game.TileOf(mob.Position), glyphMob)
	}
	for _, player := range snap.Players {
		plot(grid, game.TileOf(player.Position), glyphPlayer)
	}

	var ascii strings.Builder
	for _, row := range grid {
		ascii.WriteString(string(row))
		ascii.WriteString("\n")
	}
	return ascii.String()
}

func plot(grid [][]rune, tile game.TilePos, glyph rune) {
	if tile.Y < 0 || tile.Y >= len(grid) || tile.X < 0 || tile.X >= len(grid[tile.Y]) {
		return
	}
	grid[tile.Y][tile.X] = glyph
}
