package game

import (
	"crypto/ed25519"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fairdeal-server/pkg/deck"
	"fairdeal-server/pkg/event"
	"fairdeal-server/pkg/game/betting"
	"fairdeal-server/pkg/game/commitment"
)

// Game is a single table working through the lifecycle
// waiting -> shuffling -> active <-> revealing-community-cards -> finished.
// Every mutating operation takes the game's mutex, so state transitions are
// serialized per game.
type Game struct {
	mu sync.Mutex

	id      uuid.UUID
	name    string
	creator string
	options Options

	state   State
	players []*Player
	turns   *TurnTracker
	betting *betting.Engine
	deck    *deck.Deck

	dealerSeat     int
	smallBlindSeat int
	bigBlindSeat   int

	dealerIdentity string
	dealerKey      ed25519.PublicKey
	community      *commitment.Ledger

	winner string

	events *event.Log
	logger logrus.FieldLogger

	// roundCompleteHook is the extension point invoked when a betting round
	// completes. Progression to the next street is intentionally left to the
	// hook; the lifecycle only detects completion.
	roundCompleteHook func(*Game)
}

func newGame(id uuid.UUID, name, creator string, opts Options, events *event.Log, logger logrus.FieldLogger) *Game {
	return &Game{
		id:      id,
		name:    name,
		creator: creator,
		options: opts,
		state:   StateWaiting,
		betting: betting.New(),
		deck:    deck.New(),
		events:  events,
		logger:  logger.WithField("gameId", id.String()),
	}
}

// ID returns the game's identifier
func (g *Game) ID() uuid.UUID {
	return g.id
}

// Name returns the game's display name
func (g *Game) Name() string {
	return g.name
}

// State returns the current lifecycle state
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// SetRoundCompleteHook installs the round-completion extension hook
func (g *Game) SetRoundCompleteHook(hook func(*Game)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.roundCompleteHook = hook
}

// Join seats a player with the starting stack. Returns true if the table is
// now full; a full table auto-starts.
func (g *Game) Join(identity string) (full bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateWaiting {
		return false, newError(CodeInvalidState, "cannot join a game in state %s", g.state)
	}

	if g.seatOf(identity) >= 0 {
		return false, newError(CodeNotAuthorized, "identity %s already has a seat", identity)
	}

	if len(g.players) >= g.options.MaxPlayers {
		return false, newError(CodeGameFull, "all %d seats are taken", g.options.MaxPlayers)
	}

	player := newPlayer(identity, g.options.StartingStack)
	if err := g.betting.Seat(player); err != nil {
		return false, err
	}
	g.players = append(g.players, player)

	g.emit(event.PlayerJoined, identity, event.Fields{"seat": len(g.players) - 1})

	return len(g.players) == g.options.MaxPlayers, nil
}

// BeginShuffle transitions waiting -> shuffling. The transition to active is
// deferred until the randomness fulfillment arrives; until then the state
// checks on every other operation keep the game parked.
func (g *Game) BeginShuffle() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateWaiting {
		return newError(CodeInvalidState, "cannot start a game in state %s", g.state)
	}

	if len(g.players) < 2 {
		return newError(CodeInsufficientPlayers, "need at least 2 players, have %d", len(g.players))
	}

	g.state = StateShuffling
	g.emit(event.GameShuffling, "", nil)

	return nil
}

// RevertShuffle returns the game to waiting after a synchronous randomness
// request failure. This is the one self-healing error path in the lifecycle.
func (g *Game) RevertShuffle(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateShuffling {
		return
	}

	g.state = StateWaiting
	g.logger.WithField("reason", reason).Warn("randomness request failed; reverting to waiting")
	g.emit(event.GameShuffleFailed, "", event.Fields{"reason": reason})
}

// ApplyRandomness consumes the randomness fulfillment: it shuffles the deck
// deterministically from the entropy, seats the blinds, and opens play.
func (g *Game) ApplyRandomness(value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateShuffling {
		return newError(CodeInvalidState, "randomness arrived in state %s", g.state)
	}

	g.deck.Shuffle(value)
	g.emit(event.DeckShuffled, "", event.Fields{"deckHash": g.deck.HashCode()})

	n := len(g.players)
	g.dealerSeat = (g.dealerSeat + 1) % n
	g.smallBlindSeat = (g.dealerSeat + 1) % n
	g.bigBlindSeat = (g.dealerSeat + 2) % n
	firstToAct := (g.bigBlindSeat + 1) % n

	if err := g.betting.PostBlind(g.players[g.smallBlindSeat].Identity, g.options.SmallBlind); err != nil {
		return err
	}
	if err := g.betting.PostBlind(g.players[g.bigBlindSeat].Identity, g.options.BigBlind); err != nil {
		return err
	}

	g.turns = newTurnTracker(g.players)
	if err := g.turns.SetCurrent(firstToAct); err != nil {
		return err
	}

	g.state = StateActive
	g.emit(event.GameStarted, "", event.Fields{
		"dealerSeat":     g.dealerSeat,
		"smallBlindSeat": g.smallBlindSeat,
		"bigBlindSeat":   g.bigBlindSeat,
		"pot":            g.betting.Pot(),
	})
	g.emitTurnChanged()

	return nil
}

// PlaceBet handles a voluntary bet by the player whose turn it is.
// The amount is taken from the stack in full; it must at least cover the
// difference between the highest bet and the player's contribution so far.
func (g *Game) PlaceBet(identity string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.actingPlayer(identity)
	if err != nil {
		return err
	}

	raised, err := g.betting.Bet(identity, amount)
	if err != nil {
		return mapBettingError(err)
	}

	if raised {
		player.lastAction = ActionRaise
	} else {
		player.lastAction = ActionCall
	}

	g.emit(event.PlayerActionTaken, identity, event.Fields{
		"kind":   string(player.lastAction),
		"amount": amount,
	})

	return g.advanceTurn()
}

// Fold folds the player whose turn it is. The last active player cannot
// fold; a seat must remain to win the pot.
func (g *Game) Fold(identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.actingPlayer(identity)
	if err != nil {
		return err
	}

	if g.betting.ActiveCount() == 1 {
		return newError(CodeInvalidState, "the last active player cannot fold")
	}

	if err := g.betting.Fold(identity); err != nil {
		return mapBettingError(err)
	}

	player.active = false
	player.lastAction = ActionFold

	g.emit(event.PlayerActionTaken, identity, event.Fields{"kind": string(ActionFold)})

	return g.advanceTurn()
}

// actingPlayer validates state and turn order for a betting action
func (g *Game) actingPlayer(identity string) (*Player, error) {
	if g.state != StateActive {
		return nil, newError(CodeInvalidState, "cannot act in state %s", g.state)
	}

	seat := g.seatOf(identity)
	if seat < 0 {
		return nil, newError(CodePlayerNotFound, "identity %s is not seated", identity)
	}

	if g.turns.Current() != seat {
		return nil, newError(CodeNotYourTurn, "it is not your turn")
	}

	return g.players[seat], nil
}

// advanceTurn walks to the next active seat, evaluates round completion, and
// emits the turn-changed notification
func (g *Game) advanceTurn() error {
	if err := g.turns.Advance(); err != nil {
		return err
	}

	if g.betting.RoundComplete() {
		g.logger.WithField("pot", g.betting.Pot()).Debug("betting round complete")
		if g.roundCompleteHook != nil {
			g.roundCompleteHook(g)
		}
	}

	g.emitTurnChanged()
	return nil
}

// RoundComplete reports whether the current betting round needs no further
// action: every active player has acted and the highest contribution among
// active players equals the highest bet
func (g *Game) RoundComplete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.betting.RoundComplete()
}

// AssignDealer sets the game's trusted dealer. Reassignment after the dealer
// has committed would orphan the stored commitments, so it is rejected.
func (g *Game) AssignDealer(identity string, key ed25519.PublicKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateFinished {
		return newError(CodeInvalidState, "game is finished")
	}

	if g.community != nil && g.community.Committed() {
		return newError(CodeSequenceViolation, "cannot replace the dealer after commitments exist")
	}

	g.dealerIdentity = identity
	g.dealerKey = key
	g.community = commitment.NewLedger(g.id, key)

	g.emit(event.DealerAssigned, identity, nil)

	return nil
}

// Commit stores the dealer's five community card commitments
func (g *Game) Commit(identity string, commitments [commitment.NumSlots]commitment.Commitment) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateActive {
		return newError(CodeInvalidState, "cannot commit in state %s", g.state)
	}

	if err := g.requireDealer(identity); err != nil {
		return err
	}

	if err := g.community.Commit(commitments); err != nil {
		return mapCommitmentError(err)
	}

	for slot := commitment.SlotFlop1; slot <= commitment.SlotRiver; slot++ {
		g.emit(event.CardCommitted, identity, event.Fields{
			"slot":       slot.String(),
			"commitment": hex.EncodeToString(commitments[slot][:]),
		})
	}

	return nil
}

// RevealFlop reveals the three flop slots all-or-nothing
func (g *Game) RevealFlop(identity string, cards [3]deck.Card, signatures [3][]byte) error {
	return g.reveal(identity, func() error {
		return g.community.RevealFlop(cards, signatures)
	}, func() {
		for i, card := range cards {
			g.emitCardRevealed(identity, commitment.Slot(i), card)
		}
	})
}

// RevealTurn reveals the turn slot; the flop must already be revealed
func (g *Game) RevealTurn(identity string, card deck.Card, signature []byte) error {
	return g.reveal(identity, func() error {
		return g.community.RevealTurn(card, signature)
	}, func() {
		g.emitCardRevealed(identity, commitment.SlotTurn, card)
	})
}

// RevealRiver reveals the river slot; the turn must already be revealed
func (g *Game) RevealRiver(identity string, card deck.Card, signature []byte) error {
	return g.reveal(identity, func() error {
		return g.community.RevealRiver(card, signature)
	}, func() {
		g.emitCardRevealed(identity, commitment.SlotRiver, card)
	})
}

// reveal runs a reveal operation as a short excursion from active back to
// active. A failed reveal leaves the game exactly as it was.
func (g *Game) reveal(identity string, op func() error, emit func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateActive {
		return newError(CodeInvalidState, "cannot reveal in state %s", g.state)
	}

	if err := g.requireDealer(identity); err != nil {
		return err
	}

	g.state = StateRevealingCommunityCards
	defer func() { g.state = StateActive }()

	if err := op(); err != nil {
		return mapCommitmentError(err)
	}

	emit()
	return nil
}

// End finishes the game. It is valid only when a single active player
// remains; that player wins the pot. Returns the winner and the pot paid.
func (g *Game) End() (winner string, pot int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateActive {
		return "", 0, newError(CodeInvalidState, "cannot end a game in state %s", g.state)
	}

	var last *Player
	for _, p := range g.players {
		if p.Active() {
			if last != nil {
				return "", 0, newError(CodeInvalidState, "more than one active player remains")
			}
			last = p
		}
	}

	if last == nil {
		return "", 0, newError(CodePlayerNotFound, "no active player remains")
	}

	pot, err = g.betting.AwardPot(last.Identity)
	if err != nil {
		return "", 0, err
	}

	g.winner = last.Identity
	g.state = StateFinished
	g.emit(event.GameEnded, last.Identity, event.Fields{
		"winner": last.Identity,
		"pot":    pot,
	})

	return last.Identity, pot, nil
}

func (g *Game) requireDealer(identity string) error {
	if g.dealerIdentity == "" {
		return newError(CodeNotAuthorized, "no dealer has been assigned")
	}

	if identity != g.dealerIdentity {
		return newError(CodeNotAuthorized, "only the assigned dealer may do that")
	}

	return nil
}

func (g *Game) seatOf(identity string) int {
	for seat, p := range g.players {
		if p.Identity == identity {
			return seat
		}
	}

	return -1
}

func (g *Game) emit(t event.Type, identity string, fields event.Fields) {
	g.events.Append(event.New(t, g.id, identity, fields))
}

func (g *Game) emitTurnChanged() {
	g.emit(event.TurnChanged, g.turns.CurrentPlayer().Identity, event.Fields{
		"seat": g.turns.Current(),
	})
}

func (g *Game) emitCardRevealed(identity string, slot commitment.Slot, card deck.Card) {
	g.emit(event.CardRevealed, identity, event.Fields{
		"slot": slot.String(),
		"rank": card.Rank,
		"suit": int(card.Suit),
	})
}

func mapBettingError(err error) error {
	switch err {
	case betting.ErrInsufficientChips:
		return Error{Code: CodeInsufficientChips, Message: err.Error()}
	case betting.ErrBetTooLow:
		return Error{Code: CodeBetTooLow, Message: err.Error()}
	case betting.ErrParticipantNotFound:
		return Error{Code: CodePlayerNotFound, Message: err.Error()}
	}

	return err
}

func mapCommitmentError(err error) error {
	switch err {
	case commitment.ErrCommitmentMismatch:
		return Error{Code: CodeCommitmentMismatch, Message: err.Error()}
	case commitment.ErrInvalidSignature:
		return Error{Code: CodeInvalidSignature, Message: err.Error()}
	case commitment.ErrAlreadyRevealed:
		return Error{Code: CodeAlreadyRevealed, Message: err.Error()}
	case commitment.ErrSequenceViolation:
		return Error{Code: CodeSequenceViolation, Message: err.Error()}
	}

	return err
}
