package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quickchat/models"
)

// Messages is the Mongo-backed message store.
type Messages struct {
	coll *mongo.Collection
}

func NewMessages(coll *mongo.Collection) *Messages {
	return &Messages{coll: coll}
}

func (s *Messages) Insert(ctx context.Context, m *models.Message) error {
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *Messages) Between(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"senderId": a, "receiverId": b},
		{"senderId": b, "receiverId": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Messages) MarkSeen(ctx context.Context, id primitive.ObjectID) (bool, error) {
	// The filter matches regardless of the current seen value, so a
	// repeat call matches the document and stays a no-op.
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Messages) MarkPairSeen(ctx context.Context, senderID, receiverID primitive.ObjectID) (int64, error) {
	res, err := s.coll.UpdateMany(
		ctx,
		bson.M{"senderId": senderID, "receiverId": receiverID, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Messages) UnseenCounts(ctx context.Context, receiverID primitive.ObjectID) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "receiverId", Value: receiverID}, {Key: "seen", Value: false}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$senderId"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		SenderID primitive.ObjectID `bson:"_id"`
		Count    int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID.Hex()] = row.Count
	}
	return counts, nil
}
