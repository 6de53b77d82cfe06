package repository

import (
	"context"
	"errors"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/database"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the mongo collection poems are stored in.
const Collection = "poems"

// MongoRepo implements Repository on a MongoDB collection. The collection is
// acquired per call from the source, so the first request triggers the connect.
type MongoRepo struct {
	src database.CollectionSource
}

func NewMongoRepo(src database.CollectionSource) *MongoRepo {
	return &MongoRepo{src: src}
}

func (m *MongoRepo) col(ctx context.Context) (*mongo.Collection, error) {
	return m.src.Collection(ctx, Collection)
}

// EnsureIndexes creates the createdAt index used by List.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	col, err := m.col(ctx)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}})
	return err
}

func (m *MongoRepo) Create(ctx context.Context, p *poem.Poem) error {
	col, err := m.col(ctx)
	if err != nil {
		return err
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err = col.InsertOne(ctx, p)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*poem.Poem, error) {
	col, err := m.col(ctx)
	if err != nil {
		return nil, err
	}
	var p poem.Poem
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*poem.Poem, error) {
	col, err := m.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []*poem.Poem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Update(ctx context.Context, id primitive.ObjectID, patch poem.Patch) (*poem.Poem, error) {
	col, err := m.col(ctx)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated poem.Poem
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
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

func (m *MongoRepo) Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	col, err := m.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"title": 1})
	cur, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p poem.Poem
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p.Title
	}
	return out, cur.Err()
}
