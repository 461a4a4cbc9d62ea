package random

import (
	"github.com/google/uuid"
)

// Seed carries the parameters of a randomness request
type Seed struct {
	// GameID is the game waiting on the entropy
	GameID uuid.UUID
	// NumBytes is how much entropy the requester wants
	NumBytes int
}

// Gateway abstracts the asynchronous randomness request/fulfillment cycle.
// Request may fail synchronously; otherwise the fulfillment arrives later
// through the Fulfiller.
type Gateway interface {
	Request(seed Seed) (uuid.UUID, error)
}

// Fulfiller receives randomness fulfillments.
// Implementations must reject unknown or already-consumed request ids
// without mutating state.
type Fulfiller interface {
	OnRandomnessFulfilled(requestID uuid.UUID, value []byte) error
}
