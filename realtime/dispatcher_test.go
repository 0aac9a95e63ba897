package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quickchat/chat"
	"quickchat/models"
)

func receiveEvent(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev envelope
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	default:
		t.Fatal("expected a frame on the client's send channel")
		return envelope{}
	}
}

func requireNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	default:
	}
}

func TestDeliverPushedWhenReceiverOnline(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	d := NewDispatcher(registry, nil)

	receiver := primitive.NewObjectID()
	c := testClient(receiver.Hex())
	registry.Register(receiver.Hex(), c)
	receiveEvent(t, c) // drain the presence broadcast

	m := &models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   primitive.NewObjectID(),
		ReceiverID: receiver,
		Text:       "yo",
	}
	require.Equal(t, chat.Pushed, d.Deliver(m))

	ev := receiveEvent(t, c)
	require.Equal(t, "newMessage", ev.Type)

	payload, err := json.Marshal(ev.Payload)
	require.NoError(t, err)
	var got models.Message
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, "yo", got.Text)
}

func TestDeliverQueuedWhenReceiverOffline(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var queued []*models.Message
	d := NewDispatcher(registry, func(m *models.Message) {
		queued = append(queued, m)
	})

	m := &models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   primitive.NewObjectID(),
		ReceiverID: primitive.NewObjectID(),
		Text:       "later",
	}
	require.Equal(t, chat.Queued, d.Deliver(m))
	require.Len(t, queued, 1)
	require.Equal(t, m.ID, queued[0].ID)
}

func TestDeliverDoesNotCrossUsers(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	d := NewDispatcher(registry, nil)

	bystander := testClient("bystander")
	registry.Register("bystander", bystander)
	receiveEvent(t, bystander) // presence broadcast

	m := &models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   primitive.NewObjectID(),
		ReceiverID: primitive.NewObjectID(),
		Text:       "private",
	}
	require.Equal(t, chat.Queued, d.Deliver(m))
	requireNoEvent(t, bystander)
}

func TestBroadcastPresenceReachesEveryone(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	NewDispatcher(registry, nil)

	a := testClient("alice")
	b := testClient("bob")
	registry.Register("alice", a)

	ev := receiveEvent(t, a)
	require.Equal(t, "onlineUsers", ev.Type)

	registry.Register("bob", b)

	for _, c := range []*Client{a, b} {
		ev := receiveEvent(t, c)
		require.Equal(t, "onlineUsers", ev.Type)

		payload, err := json.Marshal(ev.Payload)
		require.NoError(t, err)
		var online []string
		require.NoError(t, json.Unmarshal(payload, &online))
		require.Equal(t, []string{"alice", "bob"}, online)
	}
}

func TestNotifySeenTargetsCounterpartOnly(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	d := NewDispatcher(registry, nil)

	counterpart := primitive.NewObjectID()
	viewer := primitive.NewObjectID()

	c := testClient(counterpart.Hex())
	other := testClient("other")
	registry.Register(counterpart.Hex(), c)
	registry.Register("other", other)
	receiveEvent(t, c) // presence x2
	receiveEvent(t, c)
	receiveEvent(t, other)

	d.NotifySeen(counterpart, viewer, 2)

	ev := receiveEvent(t, c)
	require.Equal(t, "messagesSeen", ev.Type)

	payload, err := json.Marshal(ev.Payload)
	require.NoError(t, err)
	var body struct {
		By    string `json:"by"`
		Count int64  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, viewer.Hex(), body.By)
	require.Equal(t, int64(2), body.Count)

	requireNoEvent(t, other)

	// Offline counterpart: nothing to do, nothing to fail.
	d.NotifySeen(primitive.NewObjectID(), viewer, 1)
}
