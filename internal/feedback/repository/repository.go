package repository

import (
	"context"
	"errors"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("feedback not found")
)

// Repository stores feedback. List returns newest first and, when poemID is
// non-nil, only feedback for that poem.
type Repository interface {
	Create(ctx context.Context, f *feedback.Feedback) error
	List(ctx context.Context, poemID *primitive.ObjectID) ([]*feedback.Feedback, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
