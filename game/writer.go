// File: game/writer.go
package game

import (
	"github.com/vtan/mmo/protocol"
)

type targetKind uint8

const (
	targetPlayer targetKind = iota
	targetAll
	targetAllExcept
)

// Target selects the recipients of a staged event.
type Target struct {
	kind   targetKind
	player ObjectID
}

// ToPlayer targets a single player.
func ToPlayer(id ObjectID) Target {
	return Target{kind: targetPlayer, player: id}
}

// ToAll targets every player hosted by the room at flush time.
func ToAll() Target {
	return Target{kind: targetAll}
}

// ToAllExcept targets every hosted player but one.
func ToAllExcept(id ObjectID) Target {
	return Target{kind: targetAllExcept, player: id}
}

// Includes reports whether the target addresses the given player.
func (t Target) Includes(id ObjectID) bool {
	switch t.kind {
	case targetPlayer:
		return t.player == id
	case targetAll:
		return true
	default:
		return t.player != id
	}
}

type stagedEvent struct {
	target Target
	event  protocol.PlayerEvent
}

// Batch is a maximal run of staged events sharing one target, serialized
// once; the frame bytes are shared by every recipient.
type Batch struct {
	Target Target
	Events []protocol.PlayerEvent
	Frame  []byte
}

// RoomWriter stages outbound events during the handling of one message or
// tick. Draining happens at the flush step: events are grouped into maximal
// same-target batches, then any upstream messages are handed over, strictly
// after the event batches.
type RoomWriter struct {
	staged   []stagedEvent
	upstream []PlayerLeftRoom
}

// NewRoomWriter creates an empty staging buffer.
func NewRoomWriter() *RoomWriter {
	return &RoomWriter{}
}

// Push stages one event for the given target.
func (w *RoomWriter) Push(target Target, event protocol.PlayerEvent) {
	w.staged = append(w.staged, stagedEvent{target: target, event: event})
}

// PushUpstream stages a message for the root actor.
func (w *RoomWriter) PushUpstream(msg PlayerLeftRoom) {
	w.upstream = append(w.upstream, msg)
}

// Empty reports whether there is nothing to flush.
func (w *RoomWriter) Empty() bool {
	return len(w.staged) == 0 && len(w.upstream) == 0
}

// Drain groups the staged events into batches, serializes each batch once
// and empties the buffer. Batches come out in insertion order, so a player
// addressed by overlapping targets still observes events in the order they
// were staged. The collected upstream messages are returned after the
// batches and must be forwarded only once the batches are delivered.
func (w *RoomWriter) Drain() ([]Batch, []PlayerLeftRoom, error) {
	// Scan from the tail: each maximal suffix sharing the last event's
	// target becomes one batch. The suffix partition is identical to the
	// head-first run partition, so reversing the collected batches restores
	// insertion order.
	reversed := make([]Batch, 0, 4)
	staged := w.staged
	for len(staged) > 0 {
		last := staged[len(staged)-1].target
		start := len(staged) - 1
		for start > 0 && staged[start-1].target == last {
			start--
		}
		events := make([]protocol.PlayerEvent, 0, len(staged)-start)
		for _, se := range staged[start:] {
			events = append(events, se.event)
		}
		reversed = append(reversed, Batch{Target: last, Events: events})
		staged = staged[:start]
	}

	batches := make([]Batch, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		batch := reversed[i]
		frame, err := protocol.EncodeServerEnvelope(batch.Events)
		if err != nil {
			return nil, nil, err
		}
		batch.Frame = frame
		batches = append(batches, batch)
	}

	upstream := w.upstream
	w.staged = nil
	w.upstream = nil
	return batches, upstream, nil
}
