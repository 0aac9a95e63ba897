package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Bio          string             `bson:"bio" json:"bio"`
	ProfilePic   string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	LastSeen     int64              `bson:"lastSeen" json:"lastSeen"`
}
