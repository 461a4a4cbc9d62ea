package commitment

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"

	"github.com/google/uuid"

	"fairdeal-server/pkg/deck"
)

// Slot identifies one of the five community card positions
type Slot int

// slot constants, in reveal order
const (
	SlotFlop1 Slot = iota
	SlotFlop2
	SlotFlop3
	SlotTurn
	SlotRiver
)

// NumSlots is the number of community card slots
const NumSlots = 5

func (s Slot) String() string {
	switch s {
	case SlotFlop1:
		return "flop1"
	case SlotFlop2:
		return "flop2"
	case SlotFlop3:
		return "flop3"
	case SlotTurn:
		return "turn"
	case SlotRiver:
		return "river"
	}

	return ""
}

// Commitment is an opaque hash binding the dealer to a card before disclosure
type Commitment [sha256.Size]byte

// Hash computes the commitment for a card, bound to the dealer and the game
// instance so a commitment cannot be replayed across games or dealers
func Hash(gameID uuid.UUID, dealer ed25519.PublicKey, card deck.Card) Commitment {
	h := sha256.New()
	_, _ = h.Write(gameID[:])
	_, _ = h.Write(dealer)
	_, _ = h.Write(cardBytes(card))

	var c Commitment
	copy(c[:], h.Sum(nil))
	return c
}

// SignableMessage is the exact byte sequence the dealer signs for a reveal
func SignableMessage(card deck.Card) []byte {
	return cardBytes(card)
}

// Sign produces a dealer reveal signature for the card
func Sign(priv ed25519.PrivateKey, card deck.Card) []byte {
	return ed25519.Sign(priv, SignableMessage(card))
}

func cardBytes(card deck.Card) []byte {
	var b [8]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(card.Rank))
	binary.BigEndian.PutUint32(b[4:8], uint32(card.Suit))
	return b[:]
}
