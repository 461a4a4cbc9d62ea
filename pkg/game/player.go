package game

// Action is the last action a player took this round
type Action string

// action constants
const (
	ActionNone  Action = "none"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
	ActionFold  Action = "fold"
)

// Player is a seated player. Players are owned by their Game and indexed by
// seat number.
type Player struct {
	Identity   string
	chips      int
	lastAction Action
	active     bool
}

func newPlayer(identity string, startingStack int) *Player {
	return &Player{
		Identity:   identity,
		chips:      startingStack,
		lastAction: ActionNone,
		active:     true,
	}
}

// LastAction returns the player's most recent action
func (p *Player) LastAction() Action {
	return p.lastAction
}

// Active returns false once the player has folded
func (p *Player) Active() bool {
	return p.active
}

// betting.Participant interface

// ID returns the player identity
func (p *Player) ID() string {
	return p.Identity
}

// Chips returns the player's chip stack
func (p *Player) Chips() int {
	return p.chips
}

// AdjustChips adds to (or subtracts from) the player's stack
func (p *Player) AdjustChips(amount int) {
	p.chips += amount
}
