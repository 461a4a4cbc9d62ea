package betting

import (
	"errors"
	"fmt"
)

// ParticipantError is an error caused by a participant's own action
type ParticipantError string

func (p ParticipantError) Error() string {
	return string(p)
}

// ErrInsufficientChips is an error when a bet exceeds the participant's stack
var ErrInsufficientChips = ParticipantError("bet exceeds your chip stack")

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// ErrBetTooLow is an error when a bet does not cover the outstanding difference
var ErrBetTooLow = ParticipantError("bet does not cover the current bet")

// Engine keeps track of chip movement for a single betting round: the pot,
// the highest bet, and per-seat contributions.
// Chips removed from participants always equal chips added to the pot.
type Engine struct {
	seats      []*seat
	byID       map[string]*seat
	pot        int
	highestBet int
}

// New instantiates a new betting Engine
func New() *Engine {
	return &Engine{
		byID: make(map[string]*seat),
	}
}

// Seat adds a participant to the engine in table order
func (e *Engine) Seat(pt Participant) error {
	if _, ok := e.byID[pt.ID()]; ok {
		return fmt.Errorf("participant %s is already seated", pt.ID())
	}

	s := &seat{
		Participant: pt,
		tableIndex:  len(e.seats),
	}
	e.seats = append(e.seats, s)
	e.byID[pt.ID()] = s

	return nil
}

// PostBlind collects a forced contribution from the participant.
// Blinds raise the highest bet but do not count as the participant acting.
func (e *Engine) PostBlind(id string, amount int) error {
	s, ok := e.byID[id]
	if !ok {
		return ErrParticipantNotFound
	}

	if amount > s.Chips() {
		return ErrInsufficientChips
	}

	e.move(s, amount)
	if s.contributed > e.highestBet {
		e.highestBet = s.contributed
	}

	return nil
}

// Bet places a voluntary bet for the participant.
// The amount is taken from the stack in full; a call must at least cover the
// difference between the highest bet and what the participant already
// contributed. Returns true if the bet strictly raised the highest bet.
func (e *Engine) Bet(id string, amount int) (raised bool, err error) {
	s, ok := e.byID[id]
	if !ok {
		return false, ErrParticipantNotFound
	}

	if amount > s.Chips() {
		return false, ErrInsufficientChips
	}

	if amount < e.highestBet-s.contributed {
		return false, ErrBetTooLow
	}

	e.move(s, amount)
	s.acted = true

	if s.contributed > e.highestBet {
		e.highestBet = s.contributed
		return true, nil
	}

	return false, nil
}

// Fold marks the participant as folded
func (e *Engine) Fold(id string) error {
	s, ok := e.byID[id]
	if !ok {
		return ErrParticipantNotFound
	}

	s.isFolded = true
	s.acted = true
	return nil
}

// move transfers chips from the participant's stack to the pot
func (e *Engine) move(s *seat, amount int) {
	s.AdjustChips(-amount)
	s.contributed += amount
	e.pot += amount
}

// Pot returns the current pot size
func (e *Engine) Pot() int {
	return e.pot
}

// HighestBet returns the highest bet of the current round
func (e *Engine) HighestBet() int {
	return e.highestBet
}

// Contribution returns how much the participant has contributed this round
func (e *Engine) Contribution(id string) int {
	s, ok := e.byID[id]
	if !ok {
		return 0
	}

	return s.contributed
}

// ActiveCount returns the number of participants who have not folded
func (e *Engine) ActiveCount() int {
	count := 0
	for _, s := range e.seats {
		if s.active() {
			count++
		}
	}

	return count
}

// RoundComplete returns true when every active participant has acted and the
// highest contribution among active participants equals the highest bet
func (e *Engine) RoundComplete() bool {
	active, acted, maxContributed := 0, 0, 0
	for _, s := range e.seats {
		if !s.active() {
			continue
		}

		active++
		if s.acted {
			acted++
		}
		if s.contributed > maxContributed {
			maxContributed = s.contributed
		}
	}

	return active > 0 && acted == active && maxContributed == e.highestBet
}

// NextRound resets per-round state for a new street. The pot carries over.
func (e *Engine) NextRound() {
	e.highestBet = 0
	for _, s := range e.seats {
		s.contributed = 0
		s.acted = false
	}
}

// AwardPot moves the pot to the participant's stack and returns the amount
func (e *Engine) AwardPot(id string) (int, error) {
	s, ok := e.byID[id]
	if !ok {
		return 0, ErrParticipantNotFound
	}

	amount := e.pot
	e.pot = 0
	s.AdjustChips(amount)

	return amount, nil
}
