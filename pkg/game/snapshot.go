package game

import (
	"fairdeal-server/pkg/game/commitment"
)

type playerJSON struct {
	Identity   string `json:"identity"`
	Seat       int    `json:"seat"`
	Chips      int    `json:"chips"`
	LastAction Action `json:"lastAction"`
	Active     bool   `json:"active"`
}

type communityCardJSON struct {
	Slot     string `json:"slot"`
	Revealed bool   `json:"revealed"`
	Rank     int    `json:"rank"`
	Suit     int    `json:"suit"`
}

// Snapshot is the public state of a game
type Snapshot struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	State          State               `json:"state"`
	Players        []playerJSON        `json:"players"`
	CurrentSeat    int                 `json:"currentSeat"`
	DealerSeat     int                 `json:"dealerSeat"`
	SmallBlindSeat int                 `json:"smallBlindSeat"`
	BigBlindSeat   int                 `json:"bigBlindSeat"`
	Pot            int                 `json:"pot"`
	HighestBet     int                 `json:"highestBet"`
	Dealer         string              `json:"dealer,omitempty"`
	CommunityCards []communityCardJSON `json:"communityCards,omitempty"`
	Winner         string              `json:"winner,omitempty"`
}

// Snapshot returns the public state of the game.
// Unrevealed community cards appear only as their reveal status; the card
// values stay hidden until the dealer proves them.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := make([]playerJSON, len(g.players))
	for seat, p := range g.players {
		players[seat] = playerJSON{
			Identity:   p.Identity,
			Seat:       seat,
			Chips:      p.Chips(),
			LastAction: p.LastAction(),
			Active:     p.Active(),
		}
	}

	currentSeat := -1
	if g.turns != nil {
		currentSeat = g.turns.Current()
	}

	s := &Snapshot{
		ID:             g.id.String(),
		Name:           g.name,
		State:          g.state,
		Players:        players,
		CurrentSeat:    currentSeat,
		DealerSeat:     g.dealerSeat,
		SmallBlindSeat: g.smallBlindSeat,
		BigBlindSeat:   g.bigBlindSeat,
		Pot:            g.betting.Pot(),
		HighestBet:     g.betting.HighestBet(),
		Dealer:         g.dealerIdentity,
		Winner:         g.winner,
	}

	if g.community != nil && g.community.Committed() {
		cards := make([]communityCardJSON, 0, commitment.NumSlots)
		for slot := commitment.SlotFlop1; slot <= commitment.SlotRiver; slot++ {
			cc := communityCardJSON{Slot: slot.String()}
			if card, ok := g.community.Revealed(slot); ok {
				cc.Revealed = true
				cc.Rank = card.Rank
				cc.Suit = int(card.Suit)
			}
			cards = append(cards, cc)
		}
		s.CommunityCards = cards
	}

	return s
}
