package event

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies a kind of notification
type Type string

// notification types, one per successful state mutation
const (
	GameCreated       Type = "gameCreated"
	PlayerJoined      Type = "playerJoined"
	GameShuffling     Type = "gameShuffling"
	GameShuffleFailed Type = "gameShuffleFailed"
	DeckShuffled      Type = "deckShuffled"
	GameStarted       Type = "gameStarted"
	TurnChanged       Type = "turnChanged"
	DealerAssigned    Type = "dealerAssigned"
	PlayerActionTaken Type = "playerActionTaken"
	CardCommitted     Type = "cardCommitted"
	CardRevealed      Type = "cardRevealed"
	GameEnded         Type = "gameEnded"
)

// Fields carries event-specific details
type Fields map[string]interface{}

// Event is a single entry in the append-only notification log
type Event struct {
	UUID     string    `json:"uuid"`
	Type     Type      `json:"type"`
	GameID   uuid.UUID `json:"gameId"`
	Identity string    `json:"identity,omitempty"`
	Fields   Fields    `json:"fields,omitempty"`
	Time     time.Time `json:"time"`
}

// New returns a new event for the given game
func New(t Type, gameID uuid.UUID, identity string, fields Fields) Event {
	return Event{
		UUID:     uuid.New().String(),
		Type:     t,
		GameID:   gameID,
		Identity: identity,
		Fields:   fields,
		Time:     time.Now(),
	}
}
