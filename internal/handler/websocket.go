package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// createUpgrader creates a WebSocket upgrader with the given allowed origins
func createUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowedMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowedMap[origin] = true
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients (worker daemons, tests) send no Origin.
				return true
			}
			return allowedMap[origin]
		},
	}
}

// HandleWebSocket handles GET /ws
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := createUpgrader(h.Config.AllowedOrigins)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	peer := newWSPeer(conn)
	c := &connState{handler: h, peer: peer, addr: r.RemoteAddr}

	log.Printf("[WebSocket] New connection from %s", c.addr)

	stopPing := make(chan struct{})
	go c.pingLoop(stopPing)

	c.readLoop()

	close(stopPing)
	c.cleanup()
	peer.Close()
}

// readLoop processes the connection's inbound frames one at a time in
// arrival order. Frames from other connections run concurrently; this
// loop is what gives each sender->recipient pair its FIFO visibility.
func (c *connState) readLoop() {
	conn := c.peer.conn
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[WebSocket] Read error from %s: %v", c.addr, err)
			}
			return
		}
		c.dispatch(raw)
	}
}

// pingLoop keeps the transport's liveness check running; a peer that
// stops answering pongs trips the read deadline and the close event
// performs the cleanup.
func (c *connState) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.peer.ping(); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// cleanup runs once per connection when its close event fires. The
// close event is the single source of truth for disconnects, so
// unregister, room leaves, and the offline announcement cannot double
// up even when the client also sent explicit leave frames.
func (c *connState) cleanup() {
	sess := c.handler.Registry.UnregisterPeer(c.peer)
	if sess == nil {
		// Never logged in, or superseded by a newer registration.
		log.Printf("[WebSocket] Connection from %s closed", c.addr)
		return
	}

	c.handler.Rooms.LeaveAll(sess.Identity)
	c.handler.Presence.AnnounceLeave(sess.Identity, sess.DisplayName)
	log.Printf("[WebSocket] %s disconnected. Total clients: %d", sess.Identity, c.handler.Registry.Count())
}
