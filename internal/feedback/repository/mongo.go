package repository

import (
	"context"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/database"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the mongo collection feedback is stored in.
const Collection = "feedbacks"

type MongoRepo struct {
	src database.CollectionSource
}

func NewMongoRepo(src database.CollectionSource) *MongoRepo {
	return &MongoRepo{src: src}
}

func (m *MongoRepo) col(ctx context.Context) (*mongo.Collection, error) {
	return m.src.Collection(ctx, Collection)
}

// EnsureIndexes creates the (poemId, createdAt) index backing the filtered list.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	col, err := m.col(ctx)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "poemId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (m *MongoRepo) Create(ctx context.Context, f *feedback.Feedback) error {
	col, err := m.col(ctx)
	if err != nil {
		return err
	}
	f.ID = primitive.NewObjectID()
	f.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err = col.InsertOne(ctx, f)
	return err
}

func (m *MongoRepo) List(ctx context.Context, poemID *primitive.ObjectID) ([]*feedback.Feedback, error) {
	col, err := m.col(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.M{}
	if poemID != nil {
		filter["poemId"] = *poemID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []*feedback.Feedback{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	col, err := m.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
