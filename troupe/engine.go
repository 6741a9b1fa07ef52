package troupe

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine owns the lifecycle and message dispatch for a set of actors.
type Engine struct {
	pidCounter atomic.Uint64
	mu         sync.RWMutex
	actors     map[uint64]*process
	stopping   atomic.Bool
	log        *logrus.Entry
}

// NewEngine creates an empty actor engine.
func NewEngine() *Engine {
	return &Engine{
		actors: make(map[uint64]*process),
		log:    logrus.WithField("component", "engine"),
	}
}

// Spawn starts a new actor and returns its PID. Returns nil if the engine
// is shutting down.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		e.log.Warn("engine is stopping, refusing to spawn")
		return nil
	}

	pid := &PID{id: e.pidCounter.Add(1), name: props.name}
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.id] = proc
	e.mu.Unlock()

	go proc.run()
	e.Send(pid, Started{}, nil)
	return pid
}

// Send delivers a message to the actor identified by pid. The sender may be
// nil for messages originating outside the actor system. Unknown PIDs drop
// the message; a full mailbox is logged loudly and drops it too.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if pid == nil {
		return
	}
	if e.stopping.Load() && !isSystemMessage(message) {
		return
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.id]
	e.mu.RUnlock()
	if ok {
		proc.deliver(message, sender)
	}
}

// Stop asks an actor to shut down. Stopping is delivered for cleanup and the
// stop channel is signalled directly so a full mailbox cannot wedge the exit.
func (e *Engine) Stop(pid *PID) {
	if pid == nil {
		return
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.id]
	e.mu.RUnlock()
	if !ok {
		return
	}

	e.Send(pid, Stopping{}, nil)
	proc.signalStop()
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.id)
	e.mu.Unlock()
}

// Shutdown stops every actor and waits until they exit or the timeout
// elapses.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}

	e.mu.RLock()
	pids := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	e.log.WithField("actors", len(pids)).Info("engine shutdown initiated")
	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			e.log.Info("all actors stopped")
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	e.mu.Lock()
	remaining := len(e.actors)
	e.actors = make(map[uint64]*process)
	e.mu.Unlock()
	if remaining > 0 {
		e.log.WithField("remaining", remaining).Warn("engine shutdown timed out")
	}
}
