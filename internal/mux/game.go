package mux

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	gmux "github.com/gorilla/mux"

	"fairdeal-server/pkg/auth"
	"fairdeal-server/pkg/deck"
	"fairdeal-server/pkg/game"
	"fairdeal-server/pkg/game/commitment"
)

func (m *Mux) postGame() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Context().Value(ctxIdentityKey).(string)

		g, err := m.manager.CreateGame(identity)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, g.Snapshot())
	})
}

func (m *Mux) getGameUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g := r.Context().Value(ctxGameKey).(*game.Game)
		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

func (m *Mux) postGameUUIDJoin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.JoinGame(g.ID(), identity); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, g.Snapshot())
	})
}

func (m *Mux) postGameUUIDStart() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.StartGame(g.ID(), identity); err != nil {
			writeGameError(w, err)
			return
		}

		// the shuffle completes asynchronously once the randomness
		// fulfillment arrives
		writeJSON(w, http.StatusAccepted, g.Snapshot())
	})
}

type betPayload struct {
	Amount int `json:"amount"`
}

func (m *Mux) postGameUUIDBet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var bp betPayload
		if !decodeRequest(w, r, &bp) {
			return
		}

		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.PlaceBet(g.ID(), identity, bp.Amount); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

func (m *Mux) postGameUUIDFold() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.Fold(g.ID(), identity); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

func (m *Mux) postGameUUIDEnd() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.EndGame(r.Context(), g.ID(), identity); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

type dealerPayload struct {
	Identity  string `json:"identity"`
	PublicKey string `json:"publicKey"`
}

func (m *Mux) postGameUUIDDealer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var dp dealerPayload
		if !decodeRequest(w, r, &dp) {
			return
		}

		key, err := hex.DecodeString(dp.PublicKey)
		if err != nil || len(key) != ed25519.PublicKeySize {
			writeJSONError(w, http.StatusBadRequest, errors.New("publicKey must be a hex-encoded ed25519 public key"))
			return
		}

		caller := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.AssignDealer(g.ID(), caller, dp.Identity, key); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

type commitPayload struct {
	Commitments []string `json:"commitments"`
}

func (m *Mux) postGameUUIDCommit() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cp commitPayload
		if !decodeRequest(w, r, &cp) {
			return
		}

		if len(cp.Commitments) != commitment.NumSlots {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("expected %d commitments", commitment.NumSlots))
			return
		}

		var commitments [commitment.NumSlots]commitment.Commitment
		for i, s := range cp.Commitments {
			b, err := hex.DecodeString(s)
			if err != nil || len(b) != len(commitments[i]) {
				writeJSONError(w, http.StatusBadRequest, fmt.Errorf("commitment %d must be %d hex-encoded bytes", i, len(commitments[i])))
				return
			}
			copy(commitments[i][:], b)
		}

		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		if err := m.manager.CommitCommunityCards(g.ID(), identity, commitments); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

type revealPayload struct {
	Cards      []deck.Card `json:"cards"`
	Signatures []string    `json:"signatures"`
}

func (m *Mux) postGameUUIDReveal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rp revealPayload
		if !decodeRequest(w, r, &rp) {
			return
		}

		street := gmux.Vars(r)["street"]
		want := 1
		if street == "flop" {
			want = 3
		}

		if len(rp.Cards) != want || len(rp.Signatures) != want {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("the %s needs %d cards and signatures", street, want))
			return
		}

		for _, card := range rp.Cards {
			if !card.IsValid() {
				writeJSONError(w, http.StatusBadRequest, deck.ErrInvalidCard)
				return
			}
		}

		signatures := make([][]byte, len(rp.Signatures))
		for i, s := range rp.Signatures {
			b, err := hex.DecodeString(s)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, fmt.Errorf("signature %d is not valid hex", i))
				return
			}
			signatures[i] = b
		}

		identity := r.Context().Value(ctxIdentityKey).(string)
		g := r.Context().Value(ctxGameKey).(*game.Game)

		var err error
		switch street {
		case "flop":
			err = m.manager.RevealFlop(g.ID(), identity,
				[3]deck.Card{rp.Cards[0], rp.Cards[1], rp.Cards[2]},
				[3][]byte{signatures[0], signatures[1], signatures[2]})
		case "turn":
			err = m.manager.RevealTurn(g.ID(), identity, rp.Cards[0], signatures[0])
		case "river":
			err = m.manager.RevealRiver(g.ID(), identity, rp.Cards[0], signatures[0])
		}

		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, g.Snapshot())
	})
}

type rolePayload struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
}

func validRole(s string) (auth.Role, bool) {
	switch role := auth.Role(s); role {
	case auth.RolePlayer, auth.RoleDealer, auth.RoleAdmin:
		return role, true
	}

	return "", false
}

func (m *Mux) postAdminRole() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rp rolePayload
		if !decodeRequest(w, r, &rp) {
			return
		}

		role, ok := validRole(rp.Role)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("unknown role %q", rp.Role))
			return
		}

		m.authz.Grant(rp.Identity, role)
		writeJSON(w, http.StatusCreated, rp)
	})
}

func (m *Mux) deleteAdminRole() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rp rolePayload
		if !decodeRequest(w, r, &rp) {
			return
		}

		role, ok := validRole(rp.Role)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("unknown role %q", rp.Role))
			return
		}

		m.authz.Revoke(rp.Identity, role)
		writeJSON(w, http.StatusOK, rp)
	})
}
