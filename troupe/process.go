package troupe

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// process is the running instance of an actor: its mailbox and goroutine.
type process struct {
	engine  *Engine
	pid     *PID
	props   *Props
	actor   Actor
	mailbox chan envelope
	stopCh  chan struct{}
	stopped atomic.Bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan envelope, props.mailboxSize),
		stopCh:  make(chan struct{}),
	}
}

func (p *process) deliver(message interface{}, sender *PID) {
	if p.stopped.Load() && !isSystemMessage(message) {
		return
	}
	select {
	case p.mailbox <- envelope{sender: sender, message: message}:
	default:
		logrus.WithFields(logrus.Fields{
			"actor":   p.pid.String(),
			"message": typeName(message),
		}).Error("mailbox full, dropping message")
	}
}

func (p *process) signalStop() {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}

func (p *process) run() {
	defer func() {
		p.stopped.Store(true)
		if p.actor != nil {
			p.invoke(Stopped{}, nil)
		}
		p.engine.remove(p.pid)
	}()
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"actor": p.pid.String(),
				"panic": r,
			}).Errorf("actor loop panicked\n%s", debug.Stack())
			p.stopped.Store(true)
			p.signalStop()
		}
	}()

	p.actor = p.props.Produce()

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) {
				p.invoke(Stopping{}, nil)
			}
			return

		case env := <-p.mailbox:
			if p.stopped.Load() && !isSystemMessage(env.message) {
				continue
			}
			switch env.message.(type) {
			case Stopping:
				if p.stopped.CompareAndSwap(false, true) {
					p.invoke(env.message, env.sender)
					p.signalStop()
				}
			default:
				p.invoke(env.message, env.sender)
			}
		}
	}
}

// invoke calls Receive with panic isolation so one bad message cannot take
// the whole actor down.
func (p *process) invoke(message interface{}, sender *PID) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"actor":   p.pid.String(),
				"message": typeName(message),
				"panic":   r,
			}).Errorf("actor Receive panicked\n%s", debug.Stack())
		}
	}()
	p.actor.Receive(&msgContext{
		engine:  p.engine,
		self:    p.pid,
		sender:  sender,
		message: message,
	})
}

// Produce creates the actor instance for this spawn.
func (p *Props) Produce() Actor {
	return p.producer()
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
