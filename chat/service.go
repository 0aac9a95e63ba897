package chat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quickchat/models"
)

// Service owns message creation, conversation reads and the seen
// watermark. Persistence always happens before the live-push attempt,
// and a failed push never rolls anything back.
type Service struct {
	store     MessageStore
	deliverer Deliverer

	now func() time.Time

	mu        sync.Mutex
	lastStamp int64
}

func NewService(store MessageStore, deliverer Deliverer) *Service {
	return &Service{
		store:     store,
		deliverer: deliverer,
		now:       time.Now,
	}
}

// Send validates, persists and then hands the message to the deliverer.
// The returned message carries its assigned id and timestamp; the
// delivery outcome is deliberately not part of the contract.
func (s *Service) Send(ctx context.Context, senderID, receiverID primitive.ObjectID, text, image string) (*models.Message, error) {
	if text == "" && image == "" {
		return nil, fmt.Errorf("%w: message needs text or an image", ErrValidation)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	m := &models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      image,
		Seen:       false,
		CreatedAt:  s.nextStamp(),
	}

	if err := s.store.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	if s.deliverer != nil {
		outcome := s.deliverer.Deliver(m)
		log.Printf("message %s %s -> %s: %s", m.ID.Hex(), senderID.Hex(), receiverID.Hex(), outcome)
	}

	return m, nil
}

// FetchConversation returns all messages between viewer and counterpart
// in creation order and, as the implicit read receipt, marks every
// counterpart-to-viewer message seen. The returned slice reflects the
// advancement.
func (s *Service) FetchConversation(ctx context.Context, viewerID, counterpartID primitive.ObjectID) ([]models.Message, error) {
	msgs, err := s.store.Between(ctx, viewerID, counterpartID)
	if err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}

	advanced, err := s.store.MarkPairSeen(ctx, counterpartID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("advance seen watermark: %w", err)
	}

	for i := range msgs {
		if msgs[i].SenderID == counterpartID && msgs[i].ReceiverID == viewerID {
			msgs[i].Seen = true
		}
	}

	if advanced > 0 && s.deliverer != nil {
		s.deliverer.NotifySeen(counterpartID, viewerID, advanced)
	}

	return msgs, nil
}

// MarkSeen flips one message to seen, out of band of a full fetch.
// Idempotent; ErrNotFound when the id does not exist.
func (s *Service) MarkSeen(ctx context.Context, id primitive.ObjectID) error {
	found, err := s.store.MarkSeen(ctx, id)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// UnreadCounts computes, fresh on every call, how many unseen messages
// each counterpart has addressed to the viewer.
func (s *Service) UnreadCounts(ctx context.Context, viewerID primitive.ObjectID) (map[string]int64, error) {
	counts, err := s.store.UnseenCounts(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("unread counts: %w", err)
	}
	return counts, nil
}

// nextStamp returns a strictly increasing unix-millisecond timestamp so
// message ordering never ties, even for sends within the same tick.
func (s *Service) nextStamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	if ts <= s.lastStamp {
		ts = s.lastStamp + 1
	}
	s.lastStamp = ts
	return ts
}
