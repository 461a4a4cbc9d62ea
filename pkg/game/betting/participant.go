package betting

// Participant provides an interface for retrieving and adjusting a
// participant's chip stack
type Participant interface {
	ID() string
	Chips() int
	AdjustChips(amount int)
}

// seat is a participant as the engine tracks it
type seat struct {
	Participant
	// tableIndex is where the player is seated at the table
	tableIndex int
	// contributed is how much the player has put in the pot this round
	contributed int
	acted       bool
	isFolded    bool
}

func (s *seat) active() bool {
	return !s.isFolded
}
