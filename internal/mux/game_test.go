package mux

import (
	"crypto/ed25519"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdeal-server/pkg/auth"
	"fairdeal-server/pkg/deck"
	"fairdeal-server/pkg/game"
	"fairdeal-server/pkg/game/commitment"
)

func createGame(t *testing.T, env *testServer, token string) *game.Snapshot {
	t.Helper()

	var snapshot game.Snapshot
	assertPost(t, env.ts, "/game", nil, &snapshot, 201, token)
	require.NotEmpty(t, snapshot.ID)
	return &snapshot
}

// fulfill delivers the most recent randomness request
func fulfill(t *testing.T, env *testServer) {
	t.Helper()

	require.NotEmpty(t, env.gateway.requests)
	requestID := env.gateway.requests[len(env.gateway.requests)-1]
	require.NoError(t, env.manager.OnRandomnessFulfilled(requestID, []byte("test-entropy")))
}

func TestGameLifecycle(t *testing.T) {
	a := assert.New(t)
	env := newTestServer(t)

	alice := signedJWTFor(t, "alice")
	bob := signedJWTFor(t, "bob")

	snapshot := createGame(t, env, alice)
	gamePath := "/game/" + snapshot.ID

	var got game.Snapshot
	assertGet(t, env.ts, gamePath, &got, 200, alice)
	a.Equal(snapshot.ID, got.ID)
	a.Empty(got.Players)

	assertPost(t, env.ts, gamePath+"/join", nil, &got, 201, alice)
	assertPost(t, env.ts, gamePath+"/join", nil, &got, 201, bob)
	a.Len(got.Players, 2)

	// joining twice is rejected
	var errObj errorResponse
	assertPost(t, env.ts, gamePath+"/join", nil, &errObj, 403, bob)
	a.Equal(string(game.CodeNotAuthorized), errObj.Code)

	// only the creator can start
	assertPost(t, env.ts, gamePath+"/start", nil, &errObj, 403, bob)

	assertPost(t, env.ts, gamePath+"/start", nil, &got, 202, alice)
	a.Equal("shuffling", got.State.String())

	// play is parked until the randomness fulfillment arrives
	assertPost(t, env.ts, gamePath+"/bet", betPayload{Amount: 2}, &errObj, 409, alice)

	fulfill(t, env)

	assertGet(t, env.ts, gamePath, &got, 200, alice)
	a.Equal("active", got.State.String())
	a.Equal(3, got.Pot)
	a.Equal(2, got.HighestBet)

	inTurn := got.Players[got.CurrentSeat].Identity
	outOfTurn := got.Players[(got.CurrentSeat+1)%2].Identity
	tokens := map[string]string{"alice": alice, "bob": bob}

	assertPost(t, env.ts, gamePath+"/bet", betPayload{Amount: 1}, &errObj, 409, tokens[outOfTurn])
	a.Equal(string(game.CodeNotYourTurn), errObj.Code)

	assertPost(t, env.ts, gamePath+"/bet", betPayload{Amount: 1}, &got, 200, tokens[inTurn])
	a.Equal(4, got.Pot)

	assertPost(t, env.ts, gamePath+"/fold", nil, &got, 200, tokens[outOfTurn])

	// fund the escrow so the payout can settle
	env.ledger.Deposit(game.EscrowAccount(uuid.MustParse(snapshot.ID)), 1000)

	assertPost(t, env.ts, gamePath+"/end", nil, &got, 200, alice)
	a.Equal("finished", got.State.String())
	a.Equal(inTurn, got.Winner)
	a.Equal(4, env.ledger.Balance(inTurn))
}

func TestGameNotFound(t *testing.T) {
	env := newTestServer(t)
	token := signedJWTFor(t, "alice")

	var errObj errorResponse
	assertGet(t, env.ts, "/game/"+uuid.New().String(), &errObj, 404, token)
	assert.Equal(t, string(game.CodeGameNotFound), errObj.Code)

	// a non-uuid path segment does not match the route
	assertGet(t, env.ts, "/game/not-a-uuid", nil, 404, token)
}

func TestGameDealerFlow(t *testing.T) {
	a := assert.New(t)
	env := newTestServer(t)

	alice := signedJWTFor(t, "alice")
	bob := signedJWTFor(t, "bob")
	root := signedJWTFor(t, "root")
	dealer := signedJWTFor(t, "daisy")

	env.authz.Grant("root", auth.RoleAdmin)
	env.authz.Grant("daisy", auth.RoleDealer)

	snapshot := createGame(t, env, alice)
	gamePath := "/game/" + snapshot.ID
	gameID := uuid.MustParse(snapshot.ID)

	assertPost(t, env.ts, gamePath+"/join", nil, nil, 201, alice)
	assertPost(t, env.ts, gamePath+"/join", nil, nil, 201, bob)
	assertPost(t, env.ts, gamePath+"/start", nil, nil, 202, alice)
	fulfill(t, env)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	var errObj errorResponse

	// key must be valid hex of the right length
	assertPost(t, env.ts, gamePath+"/dealer", dealerPayload{Identity: "daisy", PublicKey: "zz"}, &errObj, 400, root)

	// assignment requires the admin role
	assertPost(t, env.ts, gamePath+"/dealer", dealerPayload{Identity: "daisy", PublicKey: hex.EncodeToString(pub)}, &errObj, 403, alice)

	var got game.Snapshot
	assertPost(t, env.ts, gamePath+"/dealer", dealerPayload{Identity: "daisy", PublicKey: hex.EncodeToString(pub)}, &got, 200, root)
	a.Equal("daisy", got.Dealer)

	cards := [commitment.NumSlots]deck.Card{
		deck.CardFromStringMust("As"),
		deck.CardFromStringMust("Kd"),
		deck.CardFromStringMust("10h"),
		deck.CardFromStringMust("7c"),
		deck.CardFromStringMust("2s"),
	}

	commitments := make([]string, commitment.NumSlots)
	for i, card := range cards {
		c := commitment.Hash(gameID, pub, card)
		commitments[i] = hex.EncodeToString(c[:])
	}

	// wrong number of commitments
	assertPost(t, env.ts, gamePath+"/commit", commitPayload{Commitments: commitments[:3]}, &errObj, 400, dealer)

	// only the dealer can commit
	assertPost(t, env.ts, gamePath+"/commit", commitPayload{Commitments: commitments}, &errObj, 403, alice)

	assertPost(t, env.ts, gamePath+"/commit", commitPayload{Commitments: commitments}, &got, 200, dealer)
	a.Len(got.CommunityCards, commitment.NumSlots)

	sign := func(card deck.Card) string {
		return hex.EncodeToString(commitment.Sign(priv, card))
	}

	// turn before flop is a sequence violation
	assertPost(t, env.ts, gamePath+"/reveal/turn", revealPayload{
		Cards:      []deck.Card{cards[3]},
		Signatures: []string{sign(cards[3])},
	}, &errObj, 409, dealer)
	a.Equal(string(game.CodeSequenceViolation), errObj.Code)

	// the flop needs three cards
	assertPost(t, env.ts, gamePath+"/reveal/flop", revealPayload{
		Cards:      []deck.Card{cards[0]},
		Signatures: []string{sign(cards[0])},
	}, &errObj, 400, dealer)

	assertPost(t, env.ts, gamePath+"/reveal/flop", revealPayload{
		Cards:      []deck.Card{cards[0], cards[1], cards[2]},
		Signatures: []string{sign(cards[0]), sign(cards[1]), sign(cards[2])},
	}, &got, 200, dealer)

	assertPost(t, env.ts, gamePath+"/reveal/turn", revealPayload{
		Cards:      []deck.Card{cards[3]},
		Signatures: []string{sign(cards[3])},
	}, &got, 200, dealer)

	assertPost(t, env.ts, gamePath+"/reveal/river", revealPayload{
		Cards:      []deck.Card{cards[4]},
		Signatures: []string{sign(cards[4])},
	}, &got, 200, dealer)

	for i, cc := range got.CommunityCards {
		a.True(cc.Revealed)
		a.Equal(cards[i].Rank, cc.Rank)
	}

	// an unknown street does not match the route
	assertPost(t, env.ts, gamePath+"/reveal/showdown", revealPayload{}, nil, 404, dealer)
}

func TestGameWebsocket(t *testing.T) {
	a := assert.New(t)
	env := newTestServer(t)

	alice := signedJWTFor(t, "alice")
	snapshot := createGame(t, env, alice)

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/game/" + snapshot.ID + "/ws?access_token=" + alice

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	var first wsMessage
	require.NoError(t, conn.ReadJSON(&first))
	a.Equal("snapshot", first.Key)

	require.NoError(t, env.manager.JoinGame(uuid.MustParse(snapshot.ID), "bob"))

	var second wsMessage
	require.NoError(t, conn.ReadJSON(&second))
	a.Equal("event", second.Key)

	data := second.Data.(map[string]interface{})
	a.Equal("playerJoined", data["type"])
	a.Equal("bob", data["identity"])
}

func TestGameWebsocketRequiresAuth(t *testing.T) {
	env := newTestServer(t)

	alice := signedJWTFor(t, "alice")
	snapshot := createGame(t, env, alice)

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/game/" + snapshot.ID + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}
}
