package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLog_AppendAndEvents(t *testing.T) {
	a := assert.New(t)

	l := NewLog()
	game1 := uuid.New()
	game2 := uuid.New()

	l.Append(New(GameCreated, game1, "alice", nil))
	l.Append(New(GameCreated, game2, "bob", nil))
	l.Append(New(PlayerJoined, game1, "carol", Fields{"seat": 1}))

	events := l.Events(game1)
	a.Len(events, 2)
	a.Equal(GameCreated, events[0].Type)
	a.Equal(PlayerJoined, events[1].Type)
	a.Equal("carol", events[1].Identity)

	a.Len(l.Events(uuid.Nil), 3)
	a.Len(l.Events(game2), 1)
}

func TestLog_Subscribe(t *testing.T) {
	a := assert.New(t)

	l := NewLog()
	game1 := uuid.New()
	game2 := uuid.New()

	ch, cancel := l.Subscribe(game1)
	all, cancelAll := l.Subscribe(uuid.Nil)
	defer cancelAll()

	l.Append(New(GameCreated, game1, "", nil))
	l.Append(New(GameCreated, game2, "", nil))

	e := <-ch
	a.Equal(game1, e.GameID)

	select {
	case e, ok := <-ch:
		a.Fail("unexpected event", "%v %v", e, ok)
	default:
	}

	a.Equal(game1, (<-all).GameID)
	a.Equal(game2, (<-all).GameID)

	cancel()
	_, ok := <-ch
	a.False(ok)

	// canceling twice must not panic
	cancel()
}

func TestLog_SlowSubscriberDropsEvents(t *testing.T) {
	a := assert.New(t)

	l := NewLog()
	game := uuid.New()

	ch, cancel := l.Subscribe(game)
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		l.Append(New(TurnChanged, game, "", nil))
	}

	// the log itself never drops
	a.Len(l.Events(game), subscriberBuffer+10)
	a.Len(ch, subscriberBuffer)
}
