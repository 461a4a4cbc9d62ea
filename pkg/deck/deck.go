package deck

import (
	"crypto/sha1" // nolint:gosec
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck of 52 unique cards.
// The topCard cursor marks how many cards have been dealt; cards below the
// cursor are never redealt.
type Deck struct {
	cards   []Card
	topCard int
}

// New returns a new, unshuffled deck of 52 cards
func New() *Deck {
	d := &Deck{}
	d.buildDeck()
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, 52)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}

	d.cards = cards
	d.topCard = 0
}

// Shuffle performs a deterministic Fisher-Yates shuffle driven entirely by the
// supplied entropy. Identical entropy always yields an identical ordering.
// Shuffling always starts from a freshly built deck and resets the cursor.
func (d *Deck) Shuffle(entropy []byte) {
	d.buildDeck()

	for i := len(d.cards) - 1; i > 0; i-- {
		j := int(foldEntropy(entropy, uint32(i)) % uint64(i+1))
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// foldEntropy folds the entropy value and the loop index into a single
// pseudo-random integer via SHA-256
func foldEntropy(entropy []byte, index uint32) uint64 {
	h := sha256.New()
	_, _ = h.Write(entropy)

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], index)
	_, _ = h.Write(buf[:])

	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a zero card.
func (d *Deck) Draw() (Card, error) {
	if d.topCard >= len(d.cards) {
		return Card{}, ErrEndOfDeck
	}

	card := d.cards[d.topCard]
	d.topCard++

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return d.CardsLeft() >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.cards) - d.topCard
}

// HashCode returns a SHA1 hash code of the deck ordering.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
