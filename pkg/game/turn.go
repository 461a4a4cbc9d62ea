package game

import "errors"

// errNoActiveSeats happens when every seat has folded; the lifecycle
// guarantees at least one active seat, so reaching this is a bug
var errNoActiveSeats = errors.New("no active seats remain")

// TurnTracker tracks the current-turn pointer over the seats of a game and
// advances it in increasing seat order, skipping folded players.
type TurnTracker struct {
	players []*Player
	current int
}

func newTurnTracker(players []*Player) *TurnTracker {
	return &TurnTracker{players: players}
}

// Current returns the seat index whose turn it is
func (t *TurnTracker) Current() int {
	return t.current
}

// CurrentPlayer returns the player whose turn it is
func (t *TurnTracker) CurrentPlayer() *Player {
	return t.players[t.current]
}

// SetCurrent points the tracker at a seat, normalizing modulo the seat count.
// If the seat is folded, the pointer moves forward to the next active seat.
func (t *TurnTracker) SetCurrent(seat int) error {
	t.current = seat % len(t.players)
	if t.CurrentPlayer().Active() {
		return nil
	}

	return t.Advance()
}

// Advance moves the pointer to the next active seat after the current one
func (t *TurnTracker) Advance() error {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		seat := (t.current + i) % n
		if t.players[seat].Active() {
			t.current = seat
			return nil
		}
	}

	return errNoActiveSeats
}
