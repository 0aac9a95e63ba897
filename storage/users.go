package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quickchat/models"
)

// ErrUserNotFound is returned by lookups that match no user document.
var ErrUserNotFound = errors.New("user not found")

type Users struct {
	coll *mongo.Collection
}

func NewUsers(coll *mongo.Collection) *Users {
	return &Users{coll: coll}
}

func (s *Users) Insert(ctx context.Context, u *models.User) error {
	_, err := s.coll.InsertOne(ctx, u)
	return err
}

// IsDuplicateEmail reports whether an insert failed on the unique email
// index.
func IsDuplicateEmail(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListOthers returns every user except the given one, password hash
// stripped by the projection. Backs the sidebar.
func (s *Users) ListOthers(ctx context.Context, exceptID primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": exceptID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies the given field set and returns the updated
// document.
func (s *Users) UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
