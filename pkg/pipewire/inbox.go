package pipewire

import "sync"

// Message is a unit of work delivered by an Inbox.
type Message interface {
	deliver(target Listener)
}

// InfoMessage carries an info event.
type InfoMessage struct {
	Info *InfoEvent
}

func (m InfoMessage) deliver(target Listener) { target.OnInfo(m.Info) }

// ParamMessage carries a param event.
type ParamMessage struct {
	Param *ParamEvent
}

func (m ParamMessage) deliver(target Listener) { target.OnParam(m.Param) }

type syncMessage struct {
	done chan struct{}
}

func (m syncMessage) deliver(Listener) { close(m.done) }

// Inbox is a Listener that queues events and delivers them to a target on
// one goroutine, in arrival order.
type Inbox struct {
	target   Listener
	messages chan Message
	done     chan struct{}
	start    sync.Once

	mu      sync.RWMutex
	stopped bool
}

// NewInbox creates an inbox with room for size pending messages. Posting to
// a full inbox blocks.
func NewInbox(target Listener, size int) *Inbox {
	return &Inbox{
		target:   target,
		messages: make(chan Message, size),
		done:     make(chan struct{}),
	}
}

// Start launches the delivery goroutine. Further calls do nothing.
func (b *Inbox) Start() {
	b.start.Do(func() {
		go b.loop()
	})
}

func (b *Inbox) loop() {
	defer close(b.done)
	for msg := range b.messages {
		msg.deliver(b.target)
	}
}

// Post queues a message. It returns false once the inbox is stopped.
func (b *Inbox) Post(msg Message) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		return false
	}
	b.messages <- msg
	return true
}

// OnInfo queues an info event.
func (b *Inbox) OnInfo(info *InfoEvent) {
	b.Post(InfoMessage{Info: info})
}

// OnParam queues a param event.
func (b *Inbox) OnParam(param *ParamEvent) {
	b.Post(ParamMessage{Param: param})
}

// Sync waits until every message posted before it has been delivered.
// It returns immediately on a stopped inbox. Calling it from the target
// while a message is being delivered deadlocks, as does Stop.
func (b *Inbox) Sync() {
	done := make(chan struct{})
	if b.Post(syncMessage{done: done}) {
		<-done
	}
}

// Stop refuses further messages, delivers the pending ones and waits for
// the delivery goroutine to exit.
func (b *Inbox) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.messages)
	b.mu.Unlock()

	b.Start()
	<-b.done
}

var _ Listener = (*Inbox)(nil)
