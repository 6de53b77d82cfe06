package repository

import (
	"context"
	"errors"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("poem not found")
)

// Repository is the persistence contract shared by the memory and mongo stores.
// List returns poems newest first. Titles resolves only the ids that exist.
type Repository interface {
	Create(ctx context.Context, p *poem.Poem) error
	Get(ctx context.Context, id primitive.ObjectID) (*poem.Poem, error)
	List(ctx context.Context) ([]*poem.Poem, error)
	Update(ctx context.Context, id primitive.ObjectID, patch poem.Patch) (*poem.Poem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}
