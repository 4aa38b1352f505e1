// Package transport adapts the town core to websocket clients: one
// subscription per socket, core events translated to outbound frames, and
// inbound movement frames applied to the session's player.
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-town/internal/town"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Outbound frames queued per socket before drops begin.
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The session token is the credential; origin is not.
		return true
	},
}

// frame is one websocket message in either direction.
type frame struct {
	Type     string                 `json:"type"`
	Player   *town.Player           `json:"player,omitempty"`
	Area     *town.ConversationArea `json:"area,omitempty"`
	Location *town.UserLocation     `json:"location,omitempty"`
}

// SocketAdapter upgrades handshakes carrying a town id and session token
// into live town subscriptions.
type SocketAdapter struct {
	registry *town.TownRegistry
}

func NewSocketAdapter(registry *town.TownRegistry) *SocketAdapter {
	return &SocketAdapter{registry: registry}
}

func (s *SocketAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	townID := r.URL.Query().Get("coveyTownID")
	token := r.URL.Query().Get("token")

	ctl := s.registry.GetControllerForTown(townID)
	if ctl == nil {
		http.Error(w, "no such town", http.StatusUnauthorized)
		return
	}
	sess := ctl.GetSessionByToken(token)
	if sess == nil {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "upgrading socket", "coveyTownID", townID, "error", err)
		return
	}

	c := newClient(conn)
	listener := &socketListener{c: c}
	ctl.AddTownListener(listener)

	go c.writePump()
	c.readPump(ctl, sess)

	// Socket gone: tear the session down and stop observing. DestroySession
	// is a no-op if the town was already destroyed.
	ctl.RemoveTownListener(listener)
	ctl.DestroySession(sess)
	c.close()
}

// client owns one websocket connection. All writes go through the send
// queue so that listener callbacks never block on the network.
type client struct {
	conn *websocket.Conn
	send chan []byte
	quit chan struct{}

	quitOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		quit: make(chan struct{}),
	}
}

// enqueue queues f for delivery. Called from listener callbacks under the
// controller lock, so a full queue drops the frame instead of blocking.
func (c *client) enqueue(f frame) {
	data, err := json.Marshal(f)
	if err != nil {
		slog.Warn("marshalling socket frame", "type", f.Type, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("socket send queue full, dropping frame", "type", f.Type)
	}
}

// close signals the write pump to flush and close the connection. Safe to
// call multiple times.
func (c *client) close() {
	c.quitOnce.Do(func() { close(c.quit) })
}

func (c *client) readPump(ctl *town.TownController, sess *town.Session) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			slog.Debug("discarding unparseable frame", "error", err)
			continue
		}

		switch f.Type {
		case "playerMovement":
			if f.Location != nil {
				ctl.UpdatePlayerLocation(sess.Player, *f.Location)
			}
		default:
			slog.Debug("discarding unknown frame", "type", f.Type)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-c.quit:
			// Flush anything already queued (townClosing in particular),
			// then say goodbye.
			for {
				select {
				case data := <-c.send:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					c.conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "town closing"))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// socketListener translates core events into outbound frames.
type socketListener struct {
	c *client
}

func (l *socketListener) PlayerJoined(p *town.Player) {
	l.c.enqueue(frame{Type: "newPlayer", Player: p})
}

func (l *socketListener) PlayerMoved(p *town.Player) {
	l.c.enqueue(frame{Type: "playerMoved", Player: p})
}

func (l *socketListener) PlayerDisconnected(p *town.Player) {
	l.c.enqueue(frame{Type: "playerDisconnect", Player: p})
}

func (l *socketListener) ConversationAreaUpdated(a *town.ConversationArea) {
	l.c.enqueue(frame{Type: "conversationUpdated", Area: a})
}

func (l *socketListener) ConversationAreaDestroyed(a *town.ConversationArea) {
	l.c.enqueue(frame{Type: "conversationDestroyed", Area: a})
}

func (l *socketListener) TownDestroyed() {
	l.c.enqueue(frame{Type: "townClosing"})
	l.c.close()
}
