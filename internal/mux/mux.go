package mux

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	gmux "github.com/gorilla/mux"

	"fairdeal-server/internal/jwt"
	"fairdeal-server/pkg/auth"
	"fairdeal-server/pkg/event"
	"fairdeal-server/pkg/game"
)

type ctxKey int

const (
	ctxIdentityKey ctxKey = iota
	ctxGameKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	manager *game.Manager
	authz   *auth.Registry
	events  *event.Log

	// store for testing purposes
	authRouter  *gmux.Router
	adminRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, manager *game.Manager, authz *auth.Registry, events *event.Log) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		manager: manager,
		authz:   authz,
		events:  events,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	this.adminRouter = this.authRouter.NewRoute().Subrouter()
	this.adminRouter.Use(this.adminMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodPost).Path("/game").Handler(this.postGame())

		gr := r.PathPrefix("/game/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		gr.Use(this.gameMiddleware)

		gr.Methods(http.MethodGet).Path("").Handler(this.getGameUUID())
		gr.Methods(http.MethodGet).Path("/ws").Handler(this.getGameUUIDWS())
		gr.Methods(http.MethodPost).Path("/join").Handler(this.postGameUUIDJoin())
		gr.Methods(http.MethodPost).Path("/start").Handler(this.postGameUUIDStart())
		gr.Methods(http.MethodPost).Path("/bet").Handler(this.postGameUUIDBet())
		gr.Methods(http.MethodPost).Path("/fold").Handler(this.postGameUUIDFold())
		gr.Methods(http.MethodPost).Path("/end").Handler(this.postGameUUIDEnd())
		gr.Methods(http.MethodPost).Path("/dealer").Handler(this.postGameUUIDDealer())
		gr.Methods(http.MethodPost).Path("/commit").Handler(this.postGameUUIDCommit())
		gr.Methods(http.MethodPost).Path("/reveal/{street:flop|turn|river}").Handler(this.postGameUUIDReveal())
	}

	// requires admin access
	// depends on authMiddleware
	{
		r := this.adminRouter
		r.Methods(http.MethodPost).Path("/admin/role").Handler(this.postAdminRole())
		r.Methods(http.MethodDelete).Path("/admin/role").Handler(this.deleteAdminRole())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		identity, err := jwt.ValidIdentity(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxIdentityKey, identity)
		w.Header().Set("FairDeal-Identity", identity)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// adminMiddleware requires authMiddleware to execute first
func (m *Mux) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Context().Value(ctxIdentityKey).(string)
		if !m.authz.HasRole(identity, auth.RoleAdmin) {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Mux) gameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(gmux.Vars(r)["uuid"])
		if err != nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		g, err := m.manager.Game(id)
		if err != nil {
			writeGameError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxGameKey, g)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
