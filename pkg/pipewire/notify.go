package pipewire

import "sync"

// Change identifies which cached value of a node changed.
type Change uint8

const (
	ChangeProperties Change = iota
	ChangeChannels
	ChangeVolumes
	ChangeMuted
)

// String returns the change name.
func (c Change) String() string {
	switch c {
	case ChangeProperties:
		return "properties"
	case ChangeChannels:
		return "channels"
	case ChangeVolumes:
		return "volumes"
	case ChangeMuted:
		return "muted"
	default:
		return "unknown"
	}
}

// Subscriber is notified when a node's cached state changes. It is called
// without the node lock held and may read the node.
//
// When the node delivers events through an Inbox, event notifications run on
// the inbox goroutine. Node.Sync and Node.Unbind wait for that goroutine, so
// a subscriber must call them from a goroutine of its own.
type Subscriber interface {
	OnNodeChanged(node *Node, change Change)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(node *Node, change Change)

// OnNodeChanged calls f.
func (f SubscriberFunc) OnNodeChanged(node *Node, change Change) {
	f(node, change)
}

type subscriberEntry struct {
	id  uint64
	sub Subscriber
}

// subscribers is a copy-on-notify subscriber list.
type subscribers struct {
	mu      sync.Mutex
	nextID  uint64
	entries []subscriberEntry
}

func (s *subscribers) add(sub Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, subscriberEntry{id: id, sub: sub})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.entries {
			if e.id == id {
				s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers) snapshot() []Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]Subscriber, len(s.entries))
	for i, e := range s.entries {
		subs[i] = e.sub
	}
	return subs
}
