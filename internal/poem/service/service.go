package service

import (
	"context"
	"errors"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/database"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem/repository"
)

const msgNotFound = "Poem not found"

// Service defines the poem operations used by the handler layer. Errors are
// *apperr.Error values; validation always runs before the store is touched.
type Service interface {
	List(ctx context.Context) ([]*poem.Poem, error)
	Create(ctx context.Context, in poem.CreateInput) (*poem.Poem, error)
	Get(ctx context.Context, id string) (*poem.Poem, error)
	Update(ctx context.Context, id string, patch poem.Patch) (*poem.Poem, error)
	Delete(ctx context.Context, id string) error
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &poemService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by the "poems" collection.
func NewMongoService(src database.CollectionSource) Service {
	return New(repository.NewMongoRepo(src))
}

type poemService struct {
	repo repository.Repository
}

func storeErr(msg string, err error) error {
	if errors.Is(err, database.ErrMissingURI) {
		return apperr.Config(msg, err)
	}
	return apperr.Store(msg, err)
}

func (s *poemService) List(ctx context.Context) ([]*poem.Poem, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("Failed to fetch poems", err)
	}
	return list, nil
}

func (s *poemService) Create(ctx context.Context, in poem.CreateInput) (*poem.Poem, error) {
	in, err := poem.ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	p := &poem.Poem{Title: in.Title, Content: in.Content, Author: in.Author}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storeErr("Failed to create poem", err)
	}
	return p, nil
}

func (s *poemService) Get(ctx context.Context, id string) (*poem.Poem, error) {
	oid, err := poem.ParseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, storeErr("Failed to fetch poem", err)
	}
	return p, nil
}

func (s *poemService) Update(ctx context.Context, id string, patch poem.Patch) (*poem.Poem, error) {
	oid, err := poem.ParseID(id)
	if err != nil {
		return nil, err
	}
	patch, err = poem.ValidatePatch(patch)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, oid, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, storeErr("Failed to update poem", err)
	}
	return p, nil
}

func (s *poemService) Delete(ctx context.Context, id string) error {
	oid, err := poem.ParseID(id)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return storeErr("Failed to delete poem", err)
	}
	return nil
}
