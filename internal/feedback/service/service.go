package service

import (
	"context"
	"errors"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/database"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNotFound = "Feedback not found"

// PoemTitleResolver batch-resolves poem titles. Ids of poems that no longer
// exist are simply missing from the result.
type PoemTitleResolver interface {
	Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// Service is the feedback API used by the handlers.
type Service interface {
	Create(ctx context.Context, in feedback.CreateInput) (*feedback.Feedback, error)
	ListForAdmin(ctx context.Context, poemID string) ([]feedback.AdminView, error)
	Delete(ctx context.Context, id string) error
}

func New(repo repository.Repository, titles PoemTitleResolver) Service {
	return &feedbackService{repo: repo, titles: titles}
}

type feedbackService struct {
	repo   repository.Repository
	titles PoemTitleResolver
}

func storeErr(msg string, err error) error {
	if errors.Is(err, database.ErrMissingURI) {
		return apperr.Config(msg, err)
	}
	return apperr.Store(msg, err)
}

func (s *feedbackService) Create(ctx context.Context, in feedback.CreateInput) (*feedback.Feedback, error) {
	f, err := feedback.ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, storeErr("Failed to submit feedback", err)
	}
	return f, nil
}

// ListForAdmin lists feedback newest first and resolves each poem reference
// in a second batched read. Unresolvable references render as nil.
func (s *feedbackService) ListForAdmin(ctx context.Context, poemID string) ([]feedback.AdminView, error) {
	filter, err := feedback.ParsePoemFilter(poemID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("Failed to fetch feedbacks", err)
	}

	out := make([]feedback.AdminView, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	seen := make(map[primitive.ObjectID]struct{}, len(list))
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, f := range list {
		if _, ok := seen[f.PoemID]; ok {
			continue
		}
		seen[f.PoemID] = struct{}{}
		ids = append(ids, f.PoemID)
	}
	titles, err := s.titles.Titles(ctx, ids)
	if err != nil {
		return nil, storeErr("Failed to fetch feedbacks", err)
	}

	for _, f := range list {
		var ref *feedback.PoemRef
		if title, ok := titles[f.PoemID]; ok {
			ref = &feedback.PoemRef{ID: f.PoemID, Title: title}
		}
		out = append(out, f.View(ref))
	}
	return out, nil
}

func (s *feedbackService) Delete(ctx context.Context, id string) error {
	oid, err := feedback.ParseID(id)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return storeErr("Failed to delete feedback", err)
	}
	return nil
}
