package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"fairdeal-server/internal/config"
	"fairdeal-server/internal/jwt"
	"fairdeal-server/internal/mux"
	"fairdeal-server/pkg/assets"
	"fairdeal-server/pkg/auth"
	"fairdeal-server/pkg/db"
	"fairdeal-server/pkg/event"
	"fairdeal-server/pkg/game"
	"fairdeal-server/pkg/random"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	cfg := config.Instance()

	ledger := loadLedger(cfg)

	authz := auth.NewRegistry()
	for _, admin := range cfg.Admins {
		authz.Grant(admin, auth.RoleAdmin)
	}

	events := event.NewLog()

	oracle := random.NewLocalOracle(logrus.StandardLogger(), time.Duration(cfg.Oracle.FulfillmentDelayMS)*time.Millisecond)

	manager, err := game.NewManager(logrus.StandardLogger(), game.Options{
		StartingStack: cfg.Game.StartingStack,
		SmallBlind:    cfg.Game.SmallBlind,
		BigBlind:      cfg.Game.BigBlind,
		MaxPlayers:    cfg.Game.MaxPlayers,
	}, authz, oracle, ledger, events)
	if err != nil {
		logrus.WithError(err).Fatal("could not create game manager")
	}

	oracle.Connect(manager)

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, manager, authz, events))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// loadLedger returns the postgres-backed asset ledger, or an in-memory one
// when no database is configured
func loadLedger(cfg config.Config) assets.Ledger {
	if cfg.PGDSN == "" {
		logrus.Warn("no database configured; using the in-memory asset ledger")
		return assets.NewMem()
	}

	db.Migrate()
	return assets.NewPostgres(db.Instance())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
