package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/geoquiz/internal/view"
)

// message is one encoded view event ready for a subscriber.
type message struct {
	Type string
	Data []byte
}

// Broker is an in-process pub/sub for view events, keyed by session ID. It
// implements view.Publisher.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan message]struct{}),
	}
}

// Subscribe returns a channel that receives events for the given session.
func (b *Broker) Subscribe(sessionID string) chan message {
	ch := make(chan message, 64)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan message]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan message) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given session. It never
// blocks the session loop: slow subscribers miss events.
func (b *Broker) Publish(sessionID string, event view.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.subs[sessionID]) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := message{Type: event.Type, Data: data}
	for ch := range b.subs[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}
