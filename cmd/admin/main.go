// Command admin provides the dealer-side tooling: key generation, access
// token signing, and the card commitments and reveal signatures a dealer
// publishes during a game.
package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fairdeal-server/internal/jwt"
	"fairdeal-server/pkg/deck"
	"fairdeal-server/pkg/game/commitment"
)

var command = flag.String("c", "", "specifies the command (keygen, token, commit, sign)")
var gameID = flag.String("game", "", "the game UUID (commit)")
var key = flag.String("key", "", "a hex-encoded ed25519 key; public for commit, private for sign")
var card = flag.String("card", "", "a card such as Ah or 10d (commit, sign)")
var identity = flag.String("identity", "", "the identity to sign a token for (token)")

func main() {
	flag.Parse()

	switch *command {
	case "keygen":
		keygen()
	case "token":
		token()
	case "commit":
		commit()
	case "sign":
		sign()
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func keygen() {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		logrus.WithError(err).Fatal("could not generate key")
	}

	fmt.Printf("public:  %s\n", hex.EncodeToString(pub))
	fmt.Printf("private: %s\n", hex.EncodeToString(priv))
}

func token() {
	if *identity == "" {
		logrus.Fatal("-identity is required")
	}

	jwt.LoadKeys()

	signed, err := jwt.Sign(*identity)
	if err != nil {
		logrus.WithError(err).Fatal("could not sign token")
	}

	fmt.Println(signed)
}

func commit() {
	id, err := uuid.Parse(*gameID)
	if err != nil {
		logrus.WithError(err).Fatal("-game must be a valid UUID")
	}

	pub := decodeKey(ed25519.PublicKeySize)
	c := commitment.Hash(id, pub, parseCard())

	fmt.Println(hex.EncodeToString(c[:]))
}

func sign() {
	priv := decodeKey(ed25519.PrivateKeySize)
	fmt.Println(hex.EncodeToString(commitment.Sign(priv, parseCard())))
}

func decodeKey(size int) []byte {
	b, err := hex.DecodeString(*key)
	if err != nil || len(b) != size {
		logrus.Fatalf("-key must be %d hex-encoded bytes", size)
	}

	return b
}

func parseCard() deck.Card {
	c, err := deck.CardFromString(*card)
	if err != nil {
		logrus.WithError(err).Fatal("-card is not a valid card")
	}

	return c
}
