package util

import (
	"fmt"
	"math/rand"
)

var random = rand.New(rand.NewSource(rand.Int63())) // nolint:gosec

var adjectives = []string{
	"Lucky", "Bold", "Quiet", "Loose", "Tight", "Patient", "Reckless", "Cunning", "Steady", "Wild",
	"Velvet", "Golden", "Crimson", "Emerald", "Ivory", "Midnight", "Electric", "Smoky", "Neon", "Marble",
}

var rooms = []string{
	"Table", "Parlor", "Saloon", "Lounge", "Den", "Club", "Cellar", "Terrace", "Vault", "Corner",
	"Backroom", "Pavilion", "Hall", "Annex", "Hideout",
}

// RandomGameName returns a human-friendly name for a new game by combining an
// adjective with a room
func RandomGameName() string {
	return fmt.Sprintf("%s %s", adjectives[random.Intn(len(adjectives))], rooms[random.Intn(len(rooms))])
}
