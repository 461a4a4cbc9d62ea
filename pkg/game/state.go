package game

import "encoding/json"

// State represents the lifecycle state of a game
type State int

// lifecycle states. StateWaiting is initial; StateFinished is terminal.
// StateRevealingCommunityCards is a short excursion from StateActive back to
// StateActive.
const (
	StateWaiting State = iota
	StateShuffling
	StateActive
	StateRevealingCommunityCards
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateShuffling:
		return "shuffling"
	case StateActive:
		return "active"
	case StateRevealingCommunityCards:
		return "revealing-community-cards"
	case StateFinished:
		return "finished"
	}

	return ""
}

type stateJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MarshalJSON encodes JSON
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		ID:   int(s),
		Name: s.String(),
	})
}

// UnmarshalJSON decodes JSON
func (s *State) UnmarshalJSON(b []byte) error {
	var sj stateJSON
	if err := json.Unmarshal(b, &sj); err != nil {
		return err
	}

	*s = State(sj.ID)
	return nil
}
