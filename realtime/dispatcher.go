package realtime

import (
	"encoding/json"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quickchat/chat"
	"quickchat/models"
)

// Event names on the wire, consumed by the browser client.
const (
	eventNewMessage   = "newMessage"
	eventOnlineUsers  = "onlineUsers"
	eventMessagesSeen = "messagesSeen"
	eventConnected    = "connected"
)

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func marshalEvent(typ string, payload any) ([]byte, error) {
	data, err := json.Marshal(envelope{Type: typ, Payload: payload})
	if err != nil {
		log.Printf("marshal %s event: %v", typ, err)
		return nil, err
	}
	return data, nil
}

// Dispatcher fans persisted messages out to live connections and
// broadcasts presence changes. It owns no durability: a message it
// cannot push stays reachable through the store's fetch path.
type Dispatcher struct {
	registry *Registry

	// onQueued runs when the receiver is offline, e.g. to fire a web
	// push notification. Optional.
	onQueued func(m *models.Message)
}

func NewDispatcher(registry *Registry, onQueued func(m *models.Message)) *Dispatcher {
	d := &Dispatcher{registry: registry, onQueued: onQueued}
	registry.OnChange(d.BroadcastPresence)
	return d
}

// Deliver pushes m to the receiver's connection if one is registered.
// The push is best effort: a transport that has already died without an
// explicit disconnect still counts as pushed, and the registry is never
// mutated here.
func (d *Dispatcher) Deliver(m *models.Message) chat.DeliveryOutcome {
	c, ok := d.registry.Lookup(m.ReceiverID.Hex())
	if !ok {
		if d.onQueued != nil {
			d.onQueued(m)
		}
		return chat.Queued
	}

	payload, err := marshalEvent(eventNewMessage, m)
	if err != nil {
		return chat.Queued
	}
	c.trySend(payload)
	return chat.Pushed
}

// NotifySeen tells the counterpart's connection that viewer has seen
// count of its messages, so sent-message ticks update live.
func (d *Dispatcher) NotifySeen(counterpartID, viewerID primitive.ObjectID, count int64) {
	c, ok := d.registry.Lookup(counterpartID.Hex())
	if !ok {
		return
	}

	payload, err := marshalEvent(eventMessagesSeen, map[string]any{
		"by":    viewerID.Hex(),
		"count": count,
	})
	if err != nil {
		return
	}
	c.trySend(payload)
}

// BroadcastPresence sends the current presence snapshot to every
// connected client. Wired to the registry's change callback.
func (d *Dispatcher) BroadcastPresence() {
	payload, err := marshalEvent(eventOnlineUsers, d.registry.Snapshot())
	if err != nil {
		return
	}
	d.registry.each(func(c *Client) {
		c.trySend(payload)
	})
}
