package protocol

import (
	"bytes"
	"fmt"
)

// Client → server command tags.
const (
	cmdPing byte = iota
	cmdMove
	cmdAttack
)

// Server → client event tags.
const (
	evInitial byte = iota
	evPong
	evRoomEntered
	evObjectAppeared
	evObjectDisappeared
	evObjectMovementChanged
	evObjectAnimationAction
	evObjectHealthChanged
)

// AnimationAction identifies a one-shot animation on an object.
type AnimationAction uint8

const (
	ActionAttack AnimationAction = iota
)

// ClientConfig is the static configuration a client needs to simulate and
// render; sent once in Initial.
type ClientConfig struct {
	PlayerVelocity  float32
	PlayerAnimation uint64
	PlayerMaxHealth int32
}

// Portal is a tile that transfers a player into another room.
type Portal struct {
	X              uint32
	Y              uint32
	TargetRoom     uint64
	TargetPosition Vec2
}

// RoomSync is the compact room snapshot sent on room entry. Layers and
// collisions are run-length encoded once by the owning room.
type RoomSync struct {
	RoomID     uint64
	Width      uint32
	Height     uint32
	Layers     [][]RLEPair
	Collisions []RLEPair
	Portals    []Portal
}

// PlayerCommand is a decoded client → server command.
type PlayerCommand interface {
	isPlayerCommand()
}

// Ping is a global liveness probe, answered directly by the root.
type Ping struct {
	Sequence uint32
}

// Move reports the client's declared position and motion intent for a room.
type Move struct {
	RoomID    uint64
	Position  Vec2
	Direction Direction // DirNone when standing
	Look      Direction
}

// Attack triggers a melee attack in a room.
type Attack struct {
	RoomID uint64
}

func (Ping) isPlayerCommand()   {}
func (Move) isPlayerCommand()   {}
func (Attack) isPlayerCommand() {}

// PlayerEvent is a server → client event.
type PlayerEvent interface {
	isPlayerEvent()
}

// Initial is the one-off greeting carrying the assigned player id.
type Initial struct {
	PlayerID uint64
	Config   ClientConfig
}

// Pong answers a Ping with the probed sequence and the server send time in
// unix milliseconds.
type Pong struct {
	Sequence uint32
	SentAt   uint64
}

// RoomEntered tells a player it now lives in the given room.
type RoomEntered struct {
	Room RoomSync
}

// ObjectAppeared announces a new visible object.
type ObjectAppeared struct {
	ObjectID  uint64
	Animation uint64
	Velocity  float32
}

// ObjectDisappeared announces an object leaving visibility.
type ObjectDisappeared struct {
	ObjectID uint64
}

// ObjectMovementChanged carries an object's authoritative position and
// motion; clients dead-reckon between these.
type ObjectMovementChanged struct {
	ObjectID  uint64
	Position  Vec2
	Direction Direction
	Look      Direction
}

// ObjectAnimationAction triggers a one-shot animation on an object.
type ObjectAnimationAction struct {
	ObjectID uint64
	Action   AnimationAction
}

// ObjectHealthChanged carries an object's new health and the applied delta.
type ObjectHealthChanged struct {
	ObjectID uint64
	Health   int32
	Change   int32
}

func (Initial) isPlayerEvent()               {}
func (Pong) isPlayerEvent()                  {}
func (RoomEntered) isPlayerEvent()           {}
func (ObjectAppeared) isPlayerEvent()        {}
func (ObjectDisappeared) isPlayerEvent()     {}
func (ObjectMovementChanged) isPlayerEvent() {}
func (ObjectAnimationAction) isPlayerEvent() {}
func (ObjectHealthChanged) isPlayerEvent()   {}

// EncodeClientEnvelope serializes an ordered sequence of commands into one
// frame payload.
func EncodeClientEnvelope(commands []PlayerCommand) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSeqLen(&buf, len(commands)); err != nil {
		return nil, err
	}
	for _, command := range commands {
		if err := encodeCommand(&buf, command); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeCommand(buf *bytes.Buffer, command PlayerCommand) error {
	switch c := command.(type) {
	case Ping:
		if err := WriteByte(buf, cmdPing); err != nil {
			return err
		}
		return WriteU32(buf, c.Sequence)
	case Move:
		if err := WriteByte(buf, cmdMove); err != nil {
			return err
		}
		if err := WriteUvarint(buf, c.RoomID); err != nil {
			return err
		}
		if err := writeVec2(buf, c.Position); err != nil {
			return err
		}
		if err := writeMoveDir(buf, c.Direction); err != nil {
			return err
		}
		return writeLookDir(buf, c.Look)
	case Attack:
		if err := WriteByte(buf, cmdAttack); err != nil {
			return err
		}
		return WriteUvarint(buf, c.RoomID)
	}
	return fmt.Errorf("unknown command type %T", command)
}

// DecodeClientEnvelope parses one frame payload into its ordered commands.
func DecodeClientEnvelope(payload []byte) ([]PlayerCommand, error) {
	r := bytes.NewReader(payload)
	n, err := ReadSeqLen(r)
	if err != nil {
		return nil, fmt.Errorf("client envelope: %w", err)
	}
	commands := make([]PlayerCommand, 0, n)
	for i := 0; i < n; i++ {
		command, err := decodeCommand(r)
		if err != nil {
			return nil, fmt.Errorf("client envelope command %d: %w", i, err)
		}
		commands = append(commands, command)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("client envelope: %d trailing bytes", r.Len())
	}
	return commands, nil
}

func decodeCommand(r *bytes.Reader) (PlayerCommand, error) {
	tag, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case cmdPing:
		seq, err := ReadU32(r)
		if err != nil {
			return nil, err
		}
		return Ping{Sequence: seq}, nil
	case cmdMove:
		roomID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		pos, err := readVec2(r)
		if err != nil {
			return nil, err
		}
		dir, err := readMoveDir(r)
		if err != nil {
			return nil, err
		}
		look, err := readLookDir(r)
		if err != nil {
			return nil, err
		}
		return Move{RoomID: roomID, Position: pos, Direction: dir, Look: look}, nil
	case cmdAttack:
		roomID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		return Attack{RoomID: roomID}, nil
	}
	return nil, fmt.Errorf("unknown command tag %d", tag)
}

// EncodeServerEnvelope serializes an ordered sequence of events into one
// frame payload. A batch is encoded once and the bytes may be shared by any
// number of recipients.
func EncodeServerEnvelope(events []PlayerEvent) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSeqLen(&buf, len(events)); err != nil {
		return nil, err
	}
	for _, event := range events {
		if err := encodeEvent(&buf, event); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeEvent(buf *bytes.Buffer, event PlayerEvent) error {
	switch e := event.(type) {
	case Initial:
		if err := WriteByte(buf, evInitial); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.PlayerID); err != nil {
			return err
		}
		if err := WriteFloat32(buf, e.Config.PlayerVelocity); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.Config.PlayerAnimation); err != nil {
			return err
		}
		return WriteI32(buf, e.Config.PlayerMaxHealth)
	case Pong:
		if err := WriteByte(buf, evPong); err != nil {
			return err
		}
		if err := WriteU32(buf, e.Sequence); err != nil {
			return err
		}
		return WriteUvarint(buf, e.SentAt)
	case RoomEntered:
		if err := WriteByte(buf, evRoomEntered); err != nil {
			return err
		}
		return encodeRoomSync(buf, e.Room)
	case ObjectAppeared:
		if err := WriteByte(buf, evObjectAppeared); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.ObjectID); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.Animation); err != nil {
			return err
		}
		return WriteFloat32(buf, e.Velocity)
	case ObjectDisappeared:
		if err := WriteByte(buf, evObjectDisappeared); err != nil {
			return err
		}
		return WriteUvarint(buf, e.ObjectID)
	case ObjectMovementChanged:
		if err := WriteByte(buf, evObjectMovementChanged); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.ObjectID); err != nil {
			return err
		}
		if err := writeVec2(buf, e.Position); err != nil {
			return err
		}
		if err := writeMoveDir(buf, e.Direction); err != nil {
			return err
		}
		return writeLookDir(buf, e.Look)
	case ObjectAnimationAction:
		if err := WriteByte(buf, evObjectAnimationAction); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.ObjectID); err != nil {
			return err
		}
		return WriteByte(buf, byte(e.Action))
	case ObjectHealthChanged:
		if err := WriteByte(buf, evObjectHealthChanged); err != nil {
			return err
		}
		if err := WriteUvarint(buf, e.ObjectID); err != nil {
			return err
		}
		if err := WriteI32(buf, e.Health); err != nil {
			return err
		}
		return WriteI32(buf, e.Change)
	}
	return fmt.Errorf("unknown event type %T", event)
}

// DecodeServerEnvelope parses one frame payload into its ordered events.
func DecodeServerEnvelope(payload []byte) ([]PlayerEvent, error) {
	r := bytes.NewReader(payload)
	n, err := ReadSeqLen(r)
	if err != nil {
		return nil, fmt.Errorf("server envelope: %w", err)
	}
	events := make([]PlayerEvent, 0, n)
	for i := 0; i < n; i++ {
		event, err := decodeEvent(r)
		if err != nil {
			return nil, fmt.Errorf("server envelope event %d: %w", i, err)
		}
		events = append(events, event)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("server envelope: %d trailing bytes", r.Len())
	}
	return events, nil
}

func decodeEvent(r *bytes.Reader) (PlayerEvent, error) {
	tag, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case evInitial:
		playerID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		velocity, err := ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		animation, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		maxHealth, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		return Initial{
			PlayerID: playerID,
			Config: ClientConfig{
				PlayerVelocity:  velocity,
				PlayerAnimation: animation,
				PlayerMaxHealth: maxHealth,
			},
		}, nil
	case evPong:
		seq, err := ReadU32(r)
		if err != nil {
			return nil, err
		}
		sentAt, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		return Pong{Sequence: seq, SentAt: sentAt}, nil
	case evRoomEntered:
		room, err := decodeRoomSync(r)
		if err != nil {
			return nil, err
		}
		return RoomEntered{Room: room}, nil
	case evObjectAppeared:
		objectID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		animation, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		velocity, err := ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		return ObjectAppeared{ObjectID: objectID, Animation: animation, Velocity: velocity}, nil
	case evObjectDisappeared:
		objectID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		return ObjectDisappeared{ObjectID: objectID}, nil
	case evObjectMovementChanged:
		objectID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		pos, err := readVec2(r)
		if err != nil {
			return nil, err
		}
		dir, err := readMoveDir(r)
		if err != nil {
			return nil, err
		}
		look, err := readLookDir(r)
		if err != nil {
			return nil, err
		}
		return ObjectMovementChanged{ObjectID: objectID, Position: pos, Direction: dir, Look: look}, nil
	case evObjectAnimationAction:
		objectID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		action, err := ReadByte(r)
		if err != nil {
			return nil, err
		}
		if action != byte(ActionAttack) {
			return nil, fmt.Errorf("unknown animation action %d", action)
		}
		return ObjectAnimationAction{ObjectID: objectID, Action: AnimationAction(action)}, nil
	case evObjectHealthChanged:
		objectID, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		health, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		change, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		return ObjectHealthChanged{ObjectID: objectID, Health: health, Change: change}, nil
	}
	return nil, fmt.Errorf("unknown event tag %d", tag)
}

func encodeRoomSync(buf *bytes.Buffer, room RoomSync) error {
	if err := WriteUvarint(buf, room.RoomID); err != nil {
		return err
	}
	if err := WriteU32(buf, room.Width); err != nil {
		return err
	}
	if err := WriteU32(buf, room.Height); err != nil {
		return err
	}
	if err := WriteSeqLen(buf, len(room.Layers)); err != nil {
		return err
	}
	for _, layer := range room.Layers {
		if err := writeRLE(buf, layer); err != nil {
			return err
		}
	}
	if err := writeRLE(buf, room.Collisions); err != nil {
		return err
	}
	if err := WriteSeqLen(buf, len(room.Portals)); err != nil {
		return err
	}
	for _, portal := range room.Portals {
		if err := WriteU32(buf, portal.X); err != nil {
			return err
		}
		if err := WriteU32(buf, portal.Y); err != nil {
			return err
		}
		if err := WriteUvarint(buf, portal.TargetRoom); err != nil {
			return err
		}
		if err := writeVec2(buf, portal.TargetPosition); err != nil {
			return err
		}
	}
	return nil
}

func decodeRoomSync(r *bytes.Reader) (RoomSync, error) {
	var room RoomSync
	var err error
	if room.RoomID, err = ReadUvarint(r); err != nil {
		return room, err
	}
	if room.Width, err = ReadU32(r); err != nil {
		return room, err
	}
	if room.Height, err = ReadU32(r); err != nil {
		return room, err
	}
	layerCount, err := ReadSeqLen(r)
	if err != nil {
		return room, err
	}
	room.Layers = make([][]RLEPair, 0, layerCount)
	for i := 0; i < layerCount; i++ {
		layer, err := readRLE(r)
		if err != nil {
			return room, err
		}
		room.Layers = append(room.Layers, layer)
	}
	if room.Collisions, err = readRLE(r); err != nil {
		return room, err
	}
	portalCount, err := ReadSeqLen(r)
	if err != nil {
		return room, err
	}
	room.Portals = make([]Portal, 0, portalCount)
	for i := 0; i < portalCount; i++ {
		var portal Portal
		if portal.X, err = ReadU32(r); err != nil {
			return room, err
		}
		if portal.Y, err = ReadU32(r); err != nil {
			return room, err
		}
		if portal.TargetRoom, err = ReadUvarint(r); err != nil {
			return room, err
		}
		if portal.TargetPosition, err = readVec2(r); err != nil {
			return room, err
		}
		room.Portals = append(room.Portals, portal)
	}
	return room, nil
}
