package troupe

import "fmt"

// Actor is implemented by anything that processes messages from a mailbox.
// An actor's Receive is never invoked concurrently with itself.
type Actor interface {
	Receive(ctx Context)
}

// Producer creates a fresh actor instance for a spawn.
type Producer func() Actor

// Props configures how an actor is spawned.
type Props struct {
	producer    Producer
	mailboxSize int
	name        string
}

const defaultMailboxSize = 1024

// NewProps creates spawn configuration for the given producer.
func NewProps(producer Producer) *Props {
	if producer == nil {
		panic("troupe: producer cannot be nil")
	}
	return &Props{producer: producer, mailboxSize: defaultMailboxSize}
}

// WithMailbox overrides the mailbox capacity.
func (p *Props) WithMailbox(size int) *Props {
	if size > 0 {
		p.mailboxSize = size
	}
	return p
}

// WithName gives the actor a human-readable name used in its PID and logs.
func (p *Props) WithName(name string) *Props {
	p.name = name
	return p
}

// PID is a unique reference to a running actor.
type PID struct {
	id   uint64
	name string
}

func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	if pid.name != "" {
		return fmt.Sprintf("%s-%d", pid.name, pid.id)
	}
	return fmt.Sprintf("actor-%d", pid.id)
}

// Context is handed to an actor for each processed message.
type Context interface {
	Engine() *Engine
	Self() *PID
	Sender() *PID
	Message() interface{}
}

type msgContext struct {
	engine  *Engine
	self    *PID
	sender  *PID
	message interface{}
}

func (c *msgContext) Engine() *Engine      { return c.engine }
func (c *msgContext) Self() *PID           { return c.self }
func (c *msgContext) Sender() *PID         { return c.sender }
func (c *msgContext) Message() interface{} { return c.message }

// Started is delivered once, before any user message.
type Started struct{}

// Stopping is delivered when the actor is asked to stop; the actor should
// release its resources. No user messages follow.
type Stopping struct{}

// Stopped is the final message an actor sees before its goroutine exits.
type Stopped struct{}

type envelope struct {
	sender  *PID
	message interface{}
}

func isSystemMessage(msg interface{}) bool {
	switch msg.(type) {
	case Started, Stopping, Stopped:
		return true
	}
	return false
}
