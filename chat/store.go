package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quickchat/models"
)

// MessageStore is the durable message log. Implementations must make the
// seen transition conditional (false to true only) and idempotent, so that
// interleaved fetches and sends never lose or duplicate an advancement.
type MessageStore interface {
	// Insert appends a new message. The message's ID and CreatedAt are
	// already assigned by the caller.
	Insert(ctx context.Context, m *models.Message) error

	// Between returns every message exchanged between the two users,
	// ordered by creation time ascending.
	Between(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)

	// MarkSeen flips a single message to seen. Returns false when no
	// message with that id exists. Flipping an already-seen message is
	// a no-op, not an error.
	MarkSeen(ctx context.Context, id primitive.ObjectID) (bool, error)

	// MarkPairSeen flips every unseen message from senderID to
	// receiverID and reports how many were advanced.
	MarkPairSeen(ctx context.Context, senderID, receiverID primitive.ObjectID) (int64, error)

	// UnseenCounts returns, per sender hex id, the number of unseen
	// messages addressed to receiverID. Senders with zero unseen
	// messages are absent from the map.
	UnseenCounts(ctx context.Context, receiverID primitive.ObjectID) (map[string]int64, error)
}
