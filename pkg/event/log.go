package event

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// subscriber channels are buffered; a subscriber that falls this far behind
// starts dropping events
const subscriberBuffer = 256

// Log is an append-only, in-order notification log with fan-out to
// subscribers
type Log struct {
	mu     sync.RWMutex
	events []Event
	subs   map[int]*subscription
	nextID int
}

type subscription struct {
	gameID uuid.UUID
	ch     chan Event
}

// NewLog returns an empty notification log
func NewLog() *Log {
	return &Log{
		subs: make(map[int]*subscription),
	}
}

// Append records the event and fans it out to matching subscribers.
// Events are delivered in the order they were appended.
func (l *Log) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, e)

	for _, sub := range l.subs {
		if sub.gameID != uuid.Nil && sub.gameID != e.GameID {
			continue
		}

		select {
		case sub.ch <- e:
		default:
			logrus.WithField("type", e.Type).Warn("subscriber is not keeping up; dropping event")
		}
	}
}

// Events returns a copy of the events recorded for a game, in append order.
// A nil game id returns every event.
func (l *Log) Events(gameID uuid.UUID) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := make([]Event, 0, len(l.events))
	for _, e := range l.events {
		if gameID == uuid.Nil || e.GameID == gameID {
			events = append(events, e)
		}
	}

	return events
}

// Subscribe returns a channel of events for the game, plus a cancel func.
// Subscribing with uuid.Nil receives events for all games.
func (l *Log) Subscribe(gameID uuid.UUID) (<-chan Event, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++

	sub := &subscription{
		gameID: gameID,
		ch:     make(chan Event, subscriberBuffer),
	}
	l.subs[id] = sub

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(sub.ch)
		}
	}

	return sub.ch, cancel
}
