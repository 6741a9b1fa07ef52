package protocol

import (
	"fmt"
	"io"
	"math"
)

// Direction is the 4-cardinal facing. The y axis is screen-style: down is
// positive. DirNone is only valid as a movement direction, never as a
// facing.
type Direction uint8

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
	DirNone
)

// Vector returns the unit vector of the direction. DirNone maps to zero.
func (d Direction) Vector() Vec2 {
	switch d {
	case DirRight:
		return Vec2{X: 1, Y: 0}
	case DirDown:
		return Vec2{X: 0, Y: 1}
	case DirLeft:
		return Vec2{X: -1, Y: 0}
	case DirUp:
		return Vec2{X: 0, Y: -1}
	}
	return Vec2{}
}

// Moving reports whether the direction denotes motion.
func (d Direction) Moving() bool {
	return d < DirNone
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	}
	return "none"
}

// Vec2 is a 2D vector in tile units.
type Vec2 struct {
	X float32
	Y float32
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dist is the euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float32 {
	dx := float64(v.X - o.X)
	dy := float64(v.Y - o.Y)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

func writeVec2(w io.Writer, v Vec2) error {
	if err := WriteFloat32(w, v.X); err != nil {
		return err
	}
	return WriteFloat32(w, v.Y)
}

func readVec2(r io.Reader) (Vec2, error) {
	x, err := ReadFloat32(r)
	if err != nil {
		return Vec2{}, err
	}
	y, err := ReadFloat32(r)
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{X: x, Y: y}, nil
}

// Movement directions are encoded as an option: 0 for none, 1+d otherwise.
func writeMoveDir(w io.Writer, d Direction) error {
	if !d.Moving() {
		return WriteByte(w, 0)
	}
	return WriteByte(w, byte(d)+1)
}

func readMoveDir(r io.ByteReader) (Direction, error) {
	b, err := ReadByte(r)
	if err != nil {
		return DirNone, err
	}
	if b == 0 {
		return DirNone, nil
	}
	if b > 4 {
		return DirNone, fmt.Errorf("invalid movement direction: %d", b)
	}
	return Direction(b - 1), nil
}

// Facings are required, so they are encoded as the bare tag.
func writeLookDir(w io.Writer, d Direction) error {
	if !d.Moving() {
		return fmt.Errorf("invalid look direction: %d", d)
	}
	return WriteByte(w, byte(d))
}

func readLookDir(r io.ByteReader) (Direction, error) {
	b, err := ReadByte(r)
	if err != nil {
		return DirNone, err
	}
	if b > 3 {
		return DirNone, fmt.Errorf("invalid look direction: %d", b)
	}
	return Direction(b), nil
}
