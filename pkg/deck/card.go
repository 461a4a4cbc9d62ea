package deck

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidCard is an error when a card string cannot be parsed
var ErrInvalidCard = errors.New("invalid card")

// Suit represents a card suit
type Suit int

// suit constants
const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// face cards
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Card is an individual playing card
// Cards are value types; equality is structural.
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	}

	return ""
}

func (c Card) String() string {
	var rank string
	switch c.Rank {
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	case Ace:
		rank = "A"
	default:
		rank = strconv.Itoa(c.Rank)
	}

	var suit string
	switch c.Suit {
	case Clubs:
		suit = "c"
	case Diamonds:
		suit = "d"
	case Hearts:
		suit = "h"
	case Spades:
		suit = "s"
	}

	return rank + suit
}

// IsValid returns true if the rank and suit are in range
func (c Card) IsValid() bool {
	return c.Rank >= 2 && c.Rank <= Ace && c.Suit >= Clubs && c.Suit <= Spades
}

var cardRx = regexp.MustCompile(`^(10|[2-9JQKA])([cdhs])$`)

// CardFromString parses a card from a string like "10s" or "Ah"
func CardFromString(s string) (Card, error) {
	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		return Card{}, fmt.Errorf("%w: %s", ErrInvalidCard, s)
	}

	var rank int
	switch match[1] {
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		rank, _ = strconv.Atoi(match[1])
	}

	var suit Suit
	switch match[2] {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// CardFromStringMust parses a card and panics on failure. Intended for tests.
func CardFromStringMust(s string) Card {
	card, err := CardFromString(s)
	if err != nil {
		panic(err)
	}

	return card
}
