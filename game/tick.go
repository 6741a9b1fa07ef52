// File: game/tick.go
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// tickChanSize bounds each subscriber channel. A room that falls behind
// misses ticks instead of accumulating them.
const tickChanSize = 8

// TickSource drives every room from a single wall clock. Rooms subscribe
// and receive TickEvents on their own channel; delivery is lossy so a slow
// room never stalls the clock or its siblings.
type TickSource struct {
	interval time.Duration

	mu     sync.Mutex
	subs   map[uint64]chan TickEvent
	nextID uint64
	tick   Tick

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTickSource creates a stopped tick source with the given interval.
func NewTickSource(interval time.Duration) (*TickSource, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %v", interval)
	}
	return &TickSource{
		interval: interval,
		subs:     make(map[uint64]chan TickEvent),
		stopCh:   make(chan struct{}),
	}, nil
}

// Run starts the clock goroutine. Missed ticker instants are skipped, not
// replayed, so the tick counter tracks real time.
func (t *TickSource) Run() {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				t.broadcast(now)
			case <-t.stopCh:
				return
			}
		}
	}()
}

// Stop halts the clock. Subscriber channels stay open but go silent.
func (t *TickSource) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// Subscribe registers a tick channel and returns it with a cancel function.
func (t *TickSource) Subscribe() (<-chan TickEvent, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	ch := make(chan TickEvent, tickChanSize)
	t.subs[id] = ch
	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
	return ch, cancel
}

func (t *TickSource) broadcast(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tick++
	event := TickEvent{Tick: t.tick, Time: now}
	for id, ch := range t.subs {
		select {
		case ch <- event:
		default:
			logrus.WithField("subscriber", id).Debug("Tick subscriber behind, dropping tick")
		}
	}
}
