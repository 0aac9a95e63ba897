package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message is a single entry in the conversation between two users.
// CreatedAt is unix milliseconds; after insertion only Seen is ever
// mutated, and only from false to true.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Text       string             `bson:"text,omitempty" json:"text,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"` // hosted URL, never raw bytes
	Seen       bool               `bson:"seen" json:"seen"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
}
