package realtime

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades /ws requests. Every connection must declare its
// identity at connect time via the token query parameter; resolve turns
// the token into a user id. An unidentified connection is rejected and
// never registered, leaving only the REST surface to that caller.
func Handler(registry *Registry, resolve func(token string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token required", http.StatusUnauthorized)
			return
		}

		userID, err := resolve(token)
		if err != nil {
			log.Printf("websocket handshake rejected: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		client := newClient(userID, conn, registry)

		// Pumps start before Register so the presence broadcast that
		// Register triggers can reach this client too.
		go client.writePump()
		go client.readPump()

		if payload, err := marshalEvent(eventConnected, map[string]any{
			"userId": userID,
			"time":   time.Now().Unix(),
		}); err == nil {
			client.trySend(payload)
		}

		registry.Register(userID, client)
	}
}
