package game

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fairdeal-server/internal/util"
	"fairdeal-server/pkg/assets"
	"fairdeal-server/pkg/auth"
	"fairdeal-server/pkg/deck"
	"fairdeal-server/pkg/event"
	"fairdeal-server/pkg/game/commitment"
	"fairdeal-server/pkg/random"
)

// Authorizer answers the authorization questions the lifecycle needs
type Authorizer interface {
	IsCreator(gameID uuid.UUID, identity string) bool
	HasRole(identity string, role auth.Role) bool
	SetCreator(gameID uuid.UUID, identity string)
}

// Manager owns the registry of games, the pending randomness request table,
// and the external collaborators. All lifecycle operations go through it.
type Manager struct {
	logger  logrus.FieldLogger
	options Options

	mu    sync.RWMutex
	games map[uuid.UUID]*Game

	// pending maps outstanding randomness request ids to game ids.
	// Entries are consumed exactly once.
	pendingMu sync.Mutex
	pending   map[uuid.UUID]uuid.UUID

	authz   Authorizer
	gateway random.Gateway
	ledger  assets.Ledger
	events  *event.Log
}

// NewManager returns a Manager wired to its collaborators.
// The ledger may be nil when no value custody is configured.
func NewManager(logger logrus.FieldLogger, opts Options, authz Authorizer, gateway random.Gateway, ledger assets.Ledger, events *event.Log) (*Manager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	return &Manager{
		logger:  logger,
		options: opts,
		games:   make(map[uuid.UUID]*Game),
		pending: make(map[uuid.UUID]uuid.UUID),
		authz:   authz,
		gateway: gateway,
		ledger:  ledger,
		events:  events,
	}, nil
}

// CreateGame allocates a new game in the waiting state
func (m *Manager) CreateGame(identity string) (*Game, error) {
	id := uuid.New()
	g := newGame(id, util.RandomGameName(), identity, m.options, m.events, m.logger)

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	m.authz.SetCreator(id, identity)
	m.events.Append(event.New(event.GameCreated, id, identity, event.Fields{"name": g.Name()}))

	m.logger.WithFields(logrus.Fields{
		"gameId":  id.String(),
		"creator": identity,
	}).Info("game created")

	return g, nil
}

// Game returns the game with the given id
func (m *Manager) Game(id uuid.UUID) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[id]
	if !ok {
		return nil, newError(CodeGameNotFound, "no game with id %s", id)
	}

	return g, nil
}

// JoinGame seats a player. When the last seat fills, the game starts
// automatically.
func (m *Manager) JoinGame(id uuid.UUID, identity string) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	full, err := g.Join(identity)
	if err != nil {
		return err
	}

	if full {
		// auto-start on a full table. A synchronous randomness failure
		// reverts the game to waiting; the join itself still succeeded.
		if err := m.start(g); err != nil {
			m.logger.WithError(err).WithField("gameId", id.String()).Warn("auto-start failed")
		}
	}

	return nil
}

// StartGame begins the shuffle. Only the game's creator may start it.
func (m *Manager) StartGame(id uuid.UUID, identity string) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	if !m.authz.IsCreator(id, identity) {
		return newError(CodeNotAuthorized, "only the game's creator can start it")
	}

	return m.start(g)
}

// start transitions to shuffling and issues the randomness request. The
// pending entry is recorded under the same lock that issued the request, so
// a fulfillment can never observe a request id before it is registered.
func (m *Manager) start(g *Game) error {
	if err := g.BeginShuffle(); err != nil {
		return err
	}

	m.pendingMu.Lock()
	requestID, err := m.gateway.Request(random.Seed{GameID: g.ID()})
	if err == nil {
		m.pending[requestID] = g.ID()
	}
	m.pendingMu.Unlock()

	if err != nil {
		g.RevertShuffle(err.Error())
		return fmt.Errorf("randomness request failed: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"gameId":    g.ID().String(),
		"requestId": requestID.String(),
	}).Info("randomness requested")

	return nil
}

// OnRandomnessFulfilled consumes a randomness fulfillment. Unknown or
// already-consumed request ids are rejected without mutating any game.
func (m *Manager) OnRandomnessFulfilled(requestID uuid.UUID, value []byte) error {
	m.pendingMu.Lock()
	gameID, ok := m.pending[requestID]
	if ok {
		delete(m.pending, requestID)
	}
	m.pendingMu.Unlock()

	if !ok {
		return newError(CodeUnknownRequest, "unknown randomness request %s", requestID)
	}

	g, err := m.Game(gameID)
	if err != nil {
		return err
	}

	return g.ApplyRandomness(value)
}

// PlaceBet places a bet for the player whose turn it is
func (m *Manager) PlaceBet(id uuid.UUID, identity string, amount int) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	return g.PlaceBet(identity, amount)
}

// Fold folds the player whose turn it is
func (m *Manager) Fold(id uuid.UUID, identity string) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	return g.Fold(identity)
}

// AssignDealer assigns the game's trusted dealer. The caller must hold the
// admin role and the dealer must hold the dealer role.
func (m *Manager) AssignDealer(id uuid.UUID, caller, dealerIdentity string, dealerKey ed25519.PublicKey) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	if !m.authz.HasRole(caller, auth.RoleAdmin) {
		return newError(CodeNotAuthorized, "assigning a dealer requires the admin role")
	}

	if !m.authz.HasRole(dealerIdentity, auth.RoleDealer) {
		return newError(CodeNotAuthorized, "%s does not hold the dealer role", dealerIdentity)
	}

	if len(dealerKey) != ed25519.PublicKeySize {
		return newError(CodeInvalidSignature, "dealer key must be %d bytes", ed25519.PublicKeySize)
	}

	return g.AssignDealer(dealerIdentity, dealerKey)
}

// CommitCommunityCards stores the dealer's five commitments
func (m *Manager) CommitCommunityCards(id uuid.UUID, identity string, commitments [commitment.NumSlots]commitment.Commitment) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	return g.Commit(identity, commitments)
}

// RevealFlop reveals the flop all-or-nothing
func (m *Manager) RevealFlop(id uuid.UUID, identity string, cards [3]deck.Card, signatures [3][]byte) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	return g.RevealFlop(identity, cards, signatures)
}

// RevealTurn reveals the turn card
func (m *Manager) RevealTurn(id uuid.UUID, identity string, card deck.Card, signature []byte) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	return g.RevealTurn(identity, card, signature)
}

// RevealRiver reveals the river card
func (m *Manager) RevealRiver(id uuid.UUID, identity string, card deck.Card, signature []byte) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	return g.RevealRiver(identity, card, signature)
}

// EndGame finishes a game once a single active player remains. The pot is
// paid out through the asset ledger only after the lifecycle transition has
// fully succeeded.
func (m *Manager) EndGame(ctx context.Context, id uuid.UUID, caller string) error {
	g, err := m.Game(id)
	if err != nil {
		return err
	}

	if !m.authz.IsCreator(id, caller) && !m.authz.HasRole(caller, auth.RoleAdmin) {
		return newError(CodeNotAuthorized, "only the creator or an admin can end the game")
	}

	winner, pot, err := g.End()
	if err != nil {
		return err
	}

	if m.ledger != nil {
		if err := m.ledger.Transfer(ctx, EscrowAccount(id), winner, pot); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"gameId": id.String(),
				"winner": winner,
				"pot":    pot,
			}).Error("payout transfer failed")
			return err
		}
	}

	return nil
}

// EscrowAccount is the asset-ledger account holding a game's pot
func EscrowAccount(id uuid.UUID) string {
	return "game:" + id.String()
}
