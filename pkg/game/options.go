package game

import "errors"

// Options configures a game
type Options struct {
	// StartingStack is the chip stack every player starts with
	StartingStack int
	// SmallBlind and BigBlind are the forced contributions
	SmallBlind int
	BigBlind   int
	// MaxPlayers is the fixed seat count; the game auto-starts when full
	MaxPlayers int
}

// DefaultOptions returns the default game options
func DefaultOptions() Options {
	return Options{
		StartingStack: 1000,
		SmallBlind:    1,
		BigBlind:      2,
		MaxPlayers:    6,
	}
}

func validateOptions(opts Options) error {
	if opts.StartingStack <= 0 {
		return errors.New("starting stack must be > 0")
	}

	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be > 0")
	}

	if opts.SmallBlind > opts.BigBlind {
		return errors.New("small blind cannot exceed the big blind")
	}

	if opts.BigBlind > opts.StartingStack {
		return errors.New("big blind cannot exceed the starting stack")
	}

	if opts.MaxPlayers < 2 {
		return errors.New("there must be at least two seats")
	}

	return nil
}
