package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// wsPeer serializes writes to one websocket connection. gorilla permits
// a single concurrent writer, and pushes arrive from every other
// connection's dispatch as well as the ping ticker.
type wsPeer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newWSPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{conn: conn}
}

// Send writes one JSON frame under the write deadline.
func (p *wsPeer) Send(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(v)
}

// ping keeps the connection's liveness check running.
func (p *wsPeer) ping() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteMessage(websocket.PingMessage, nil)
}

// Close closes the underlying connection. Safe to call more than once;
// the duplicate close error is ignored.
func (p *wsPeer) Close() error {
	return p.conn.Close()
}
