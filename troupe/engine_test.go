package troupe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingActor struct {
	mu       sync.Mutex
	received []interface{}
}

func (a *recordingActor) Receive(ctx Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = append(a.received, ctx.Message())
}

func (a *recordingActor) messages() []interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	msgs := make([]interface{}, len(a.received))
	copy(msgs, a.received)
	return msgs
}

func TestSpawnDeliversLifecycleAndUserMessages(t *testing.T) {
	engine := NewEngine()
	actor := &recordingActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }).WithName("recorder"))
	require.NotNil(t, pid)

	engine.Send(pid, "hello", nil)
	engine.Send(pid, 42, nil)
	time.Sleep(50 * time.Millisecond)

	msgs := actor.messages()
	require.Len(t, msgs, 3)
	assert.IsType(t, Started{}, msgs[0])
	assert.Equal(t, "hello", msgs[1])
	assert.Equal(t, 42, msgs[2])
}

func TestStopDeliversStoppingThenStopped(t *testing.T) {
	engine := NewEngine()
	actor := &recordingActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))
	require.NotNil(t, pid)
	time.Sleep(20 * time.Millisecond)

	engine.Stop(pid)
	time.Sleep(50 * time.Millisecond)

	msgs := actor.messages()
	require.NotEmpty(t, msgs)
	assert.IsType(t, Stopping{}, msgs[len(msgs)-2])
	assert.IsType(t, Stopped{}, msgs[len(msgs)-1])

	// Messages after stop are dropped silently.
	engine.Send(pid, "late", nil)
	time.Sleep(20 * time.Millisecond)
	assert.NotContains(t, actor.messages(), "late")
}

type panickyActor struct {
	mu     sync.Mutex
	panics int
	after  []interface{}
}

func (a *panickyActor) Receive(ctx Context) {
	switch msg := ctx.Message().(type) {
	case string:
		if msg == "boom" {
			a.mu.Lock()
			a.panics++
			a.mu.Unlock()
			panic("boom")
		}
		a.mu.Lock()
		a.after = append(a.after, msg)
		a.mu.Unlock()
	}
}

func TestPanicInReceiveDoesNotKillActor(t *testing.T) {
	engine := NewEngine()
	actor := &panickyActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))
	require.NotNil(t, pid)

	engine.Send(pid, "boom", nil)
	engine.Send(pid, "still alive", nil)
	time.Sleep(50 * time.Millisecond)

	actor.mu.Lock()
	defer actor.mu.Unlock()
	assert.Equal(t, 1, actor.panics)
	assert.Equal(t, []interface{}{"still alive"}, actor.after)
}

func TestShutdownStopsEverything(t *testing.T) {
	engine := NewEngine()
	for i := 0; i < 5; i++ {
		require.NotNil(t, engine.Spawn(NewProps(func() Actor { return &recordingActor{} })))
	}
	engine.Shutdown(time.Second)
	assert.Nil(t, engine.Spawn(NewProps(func() Actor { return &recordingActor{} })))
}
