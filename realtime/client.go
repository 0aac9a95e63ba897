package realtime

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	readLimit = 4096
)

// Client wraps one websocket connection for one authenticated user.
// Outbound frames go through a buffered channel drained by writePump,
// so pushes from the dispatcher never block on the network.
type Client struct {
	id       string // unique per connection, distinguishes reconnects of the same user
	userID   string
	conn     *websocket.Conn
	send     chan []byte
	registry *Registry
}

func newClient(userID string, conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		id:       uuid.NewString(),
		userID:   userID,
		conn:     conn,
		send:     make(chan []byte, 256),
		registry: registry,
	}
}

// trySend enqueues a frame without blocking. A full buffer drops the
// frame; the client's fetch path is the fallback of record, so a lost
// push costs nothing but latency.
func (c *Client) trySend(payload []byte) {
	select {
	case c.send <- payload:
	default:
		log.Printf("client %s (user %s): send buffer full, dropping frame", c.id, c.userID)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(c.userID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("client %s (user %s): read error: %v", c.id, c.userID, err)
			}
			return
		}
		// Inbound frames carry nothing the server acts on; all client
		// operations go through the REST surface.
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
