package chat

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quickchat/models"
)

// DeliveryOutcome reports what happened to the live-push attempt for a
// freshly persisted message. Durability is the store's job either way;
// the outcome is informational.
type DeliveryOutcome int

const (
	// Queued means the receiver had no active connection. The message
	// is reachable through the normal fetch path only.
	Queued DeliveryOutcome = iota

	// Pushed means the payload was handed to the receiver's active
	// connection. Best effort: a transport that has silently died still
	// counts as pushed.
	Pushed
)

func (o DeliveryOutcome) String() string {
	if o == Pushed {
		return "pushed"
	}
	return "queued"
}

// Deliverer is the live-push side of the system, consulted by the
// Service after every durable write.
type Deliverer interface {
	Deliver(m *models.Message) DeliveryOutcome

	// NotifySeen tells counterpartID's connection, if any, that
	// viewerID has just seen count of its messages.
	NotifySeen(counterpartID, viewerID primitive.ObjectID, count int64)
}
