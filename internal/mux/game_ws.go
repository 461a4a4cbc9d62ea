package mux

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fairdeal-server/pkg/event"
	"fairdeal-server/pkg/game"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

type wsMessage struct {
	Key  string      `json:"key"`
	Data interface{} `json:"data"`
}

// getGameUUIDWS streams the game's event log over a websocket. The first
// frame is the current snapshot; every subsequent frame is one event.
func (m *Mux) getGameUUIDWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		g := r.Context().Value(ctxGameKey).(*game.Game)
		events, cancel := m.events.Subscribe(g.ID())

		done := make(chan struct{})
		defer func() {
			cancel()
			_ = conn.Close()
			close(done)
		}()

		go m.webSocketWriteLoop(conn, g, events, done)
		m.webSocketReadLoop(conn)
	}
}

func (m *Mux) webSocketWriteLoop(conn *websocket.Conn, g *game.Game, events <-chan event.Event, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsMessage{Key: "snapshot", Data: g.Snapshot()}); err != nil {
		return
	}

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case e, ok := <-events:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsMessage{Key: "event", Data: e}); err != nil {
				logrus.WithError(err).Error("could not write event")
				return
			}
		case <-done:
			return
		}
	}
}

// webSocketReadLoop drains the connection so control frames are processed;
// clients do not send application messages on this socket
func (m *Mux) webSocketReadLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).Debug("websocket closed unexpectedly")
			}

			return
		}
	}
}
