package commitment

import (
	"crypto/ed25519"
	"errors"

	"github.com/google/uuid"

	"fairdeal-server/pkg/deck"
)

// ErrCommitmentMismatch is an error when a revealed card does not hash to the stored commitment
var ErrCommitmentMismatch = errors.New("card does not match the stored commitment")

// ErrInvalidSignature is an error when the reveal signature does not resolve to the dealer
var ErrInvalidSignature = errors.New("signature was not produced by the game's dealer")

// ErrAlreadyRevealed is an error when a reveal proof has already been consumed
var ErrAlreadyRevealed = errors.New("card has already been revealed")

// ErrSequenceViolation is an error when the commit-reveal protocol order is broken
var ErrSequenceViolation = errors.New("commit-reveal sequence violation")

type slotState struct {
	commitment Commitment
	card       deck.Card
	revealed   bool
}

// Ledger stores the dealer's community card commitments for one game and
// enforces the reveal protocol: commitments may be replaced only until the
// first reveal, reveals happen strictly in flop, turn, river order, and a
// revealed slot never un-reveals.
type Ledger struct {
	gameID    uuid.UUID
	dealer    ed25519.PublicKey
	slots     [NumSlots]slotState
	committed bool

	// guard is the once-only replay guard: a (rank, suit) proof can be
	// consumed at most once per game, so one dealer signature can never
	// satisfy two different slots
	guard map[deck.Card]bool
}

// NewLedger returns an empty ledger for the game and its assigned dealer
func NewLedger(gameID uuid.UUID, dealer ed25519.PublicKey) *Ledger {
	return &Ledger{
		gameID: gameID,
		dealer: dealer,
		guard:  make(map[deck.Card]bool),
	}
}

// Commit stores the five commitments verbatim. The pre-image cannot be
// validated at commit time; commitments are opaque until revealed.
// Overwriting is allowed only while no slot has been revealed.
func (l *Ledger) Commit(commitments [NumSlots]Commitment) error {
	if l.anyRevealed() {
		return ErrSequenceViolation
	}

	for i := range commitments {
		l.slots[i].commitment = commitments[i]
	}
	l.committed = true

	return nil
}

// Committed returns true once the dealer has committed
func (l *Ledger) Committed() bool {
	return l.committed
}

// RevealFlop reveals the three flop slots all-or-nothing: a failure on any
// slot leaves every slot unrevealed and no proof consumed.
func (l *Ledger) RevealFlop(cards [3]deck.Card, signatures [3][]byte) error {
	if !l.committed {
		return ErrSequenceViolation
	}

	if l.FlopRevealed() {
		return ErrAlreadyRevealed
	}

	// verify everything before setting anything
	seen := make(map[deck.Card]bool, 3)
	for i := 0; i < 3; i++ {
		if err := l.verify(Slot(i), cards[i], signatures[i]); err != nil {
			return err
		}

		if seen[cards[i]] {
			return ErrAlreadyRevealed
		}
		seen[cards[i]] = true
	}

	for i := 0; i < 3; i++ {
		l.set(Slot(i), cards[i])
	}

	return nil
}

// RevealTurn reveals the turn slot. The flop must already be revealed.
func (l *Ledger) RevealTurn(card deck.Card, signature []byte) error {
	if !l.committed || !l.FlopRevealed() {
		return ErrSequenceViolation
	}

	return l.revealSingle(SlotTurn, card, signature)
}

// RevealRiver reveals the river slot. The turn must already be revealed.
func (l *Ledger) RevealRiver(card deck.Card, signature []byte) error {
	if !l.committed || !l.TurnRevealed() {
		return ErrSequenceViolation
	}

	return l.revealSingle(SlotRiver, card, signature)
}

func (l *Ledger) revealSingle(slot Slot, card deck.Card, signature []byte) error {
	if l.slots[slot].revealed {
		return ErrAlreadyRevealed
	}

	if err := l.verify(slot, card, signature); err != nil {
		return err
	}

	l.set(slot, card)
	return nil
}

// verify checks the reveal proof without mutating the ledger
func (l *Ledger) verify(slot Slot, card deck.Card, signature []byte) error {
	if Hash(l.gameID, l.dealer, card) != l.slots[slot].commitment {
		return ErrCommitmentMismatch
	}

	if !ed25519.Verify(l.dealer, SignableMessage(card), signature) {
		return ErrInvalidSignature
	}

	if l.guard[card] {
		return ErrAlreadyRevealed
	}

	return nil
}

// set records the card, consumes its replay guard, and flags the slot
// revealed. The revealed flag is monotonic; nothing ever clears it.
func (l *Ledger) set(slot Slot, card deck.Card) {
	l.guard[card] = true
	l.slots[slot].card = card
	l.slots[slot].revealed = true
}

// Revealed returns the card in the slot, if it has been revealed
func (l *Ledger) Revealed(slot Slot) (deck.Card, bool) {
	if slot < 0 || slot >= NumSlots || !l.slots[slot].revealed {
		return deck.Card{}, false
	}

	return l.slots[slot].card, true
}

// FlopRevealed returns true once all three flop slots are revealed
func (l *Ledger) FlopRevealed() bool {
	return l.slots[SlotFlop1].revealed && l.slots[SlotFlop2].revealed && l.slots[SlotFlop3].revealed
}

// TurnRevealed returns true once the turn slot is revealed
func (l *Ledger) TurnRevealed() bool {
	return l.slots[SlotTurn].revealed
}

// RiverRevealed returns true once the river slot is revealed
func (l *Ledger) RiverRevealed() bool {
	return l.slots[SlotRiver].revealed
}

func (l *Ledger) anyRevealed() bool {
	for i := range l.slots {
		if l.slots[i].revealed {
			return true
		}
	}

	return false
}
