package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Role is a capability a caller may hold
type Role string

// role constants
const (
	RolePlayer Role = "player"
	RoleDealer Role = "dealer"
	RoleAdmin  Role = "admin"
)

// Service answers authorization questions for the game lifecycle
type Service interface {
	// IsCreator returns true if the identity created the game
	IsCreator(gameID uuid.UUID, identity string) bool

	// HasRole returns true if the identity holds the role
	HasRole(identity string, role Role) bool
}

// Registry is an in-memory Service with explicit grants
type Registry struct {
	mu       sync.RWMutex
	creators map[uuid.UUID]string
	roles    map[string]map[Role]bool
}

// NewRegistry returns an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		creators: make(map[uuid.UUID]string),
		roles:    make(map[string]map[Role]bool),
	}
}

// SetCreator records the identity that created the game
func (r *Registry) SetCreator(gameID uuid.UUID, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creators[gameID] = identity
}

// IsCreator returns true if the identity created the game
func (r *Registry) IsCreator(gameID uuid.UUID, identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return identity != "" && r.creators[gameID] == identity
}

// Grant gives the identity a role
func (r *Registry) Grant(identity string, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roles, ok := r.roles[identity]
	if !ok {
		roles = make(map[Role]bool)
		r.roles[identity] = roles
	}

	roles[role] = true
}

// Revoke removes a role from the identity
func (r *Registry) Revoke(identity string, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.roles[identity], role)
}

// HasRole returns true if the identity holds the role
func (r *Registry) HasRole(identity string, role Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.roles[identity][role]
}
