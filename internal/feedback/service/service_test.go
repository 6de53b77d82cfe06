package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/database"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/repository"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	poemrepo "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strp(s string) *string { return &s }

// countingTitles records how often titles are resolved.
type countingTitles struct {
	PoemTitleResolver
	calls int
	ids   []primitive.ObjectID
	err   error
}

func (c *countingTitles) Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	c.calls++
	c.ids = append(c.ids, ids...)
	if c.err != nil {
		return nil, c.err
	}
	return c.PoemTitleResolver.Titles(ctx, ids)
}

type failingRepo struct{ err error }

func (f failingRepo) Create(context.Context, *feedback.Feedback) error { return f.err }
func (f failingRepo) List(context.Context, *primitive.ObjectID) ([]*feedback.Feedback, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, primitive.ObjectID) error { return f.err }

func newPoem(t *testing.T, poems *poemrepo.MemoryRepo, title string) primitive.ObjectID {
	t.Helper()
	p := &poem.Poem{Title: title, Content: "x", Author: poem.DefaultAuthor}
	require.NoError(t, poems.Create(context.Background(), p))
	return p.ID
}

func TestCreateAnonymousDropsContact(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := New(repo, poemrepo.NewMemoryRepo())

	f, err := svc.Create(ctx, feedback.CreateInput{
		PoemID:    primitive.NewObjectID().Hex(),
		Name:      strp("Ada"),
		Email:     strp("ada@example.com"),
		Phone:     strp("555-0100"),
		Message:   "Lovely.",
		Anonymous: true,
	})
	require.NoError(t, err)
	assert.Nil(t, f.Name)

	stored, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Nil(t, stored[0].Name)
	assert.Nil(t, stored[0].Email)
	assert.Nil(t, stored[0].Phone)
}

func TestCreateDoesNotRequireExistingPoem(t *testing.T) {
	svc := New(repository.NewMemoryRepo(), poemrepo.NewMemoryRepo())
	_, err := svc.Create(context.Background(), feedback.CreateInput{
		PoemID:  primitive.NewObjectID().Hex(),
		Message: "orphan",
	})
	assert.NoError(t, err)
}

func TestListForAdminResolvesTitles(t *testing.T) {
	ctx := context.Background()
	poems := poemrepo.NewMemoryRepo()
	titles := &countingTitles{PoemTitleResolver: poems}
	svc := New(repository.NewMemoryRepo(), titles)

	dawn := newPoem(t, poems, "Dawn")
	dusk := newPoem(t, poems, "Dusk")
	for _, pid := range []primitive.ObjectID{dawn, dusk, dawn} {
		_, err := svc.Create(ctx, feedback.CreateInput{PoemID: pid.Hex(), Message: "m"})
		require.NoError(t, err)
	}

	views, err := svc.ListForAdmin(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, 1, titles.calls, "titles are resolved in one batch")
	assert.Len(t, titles.ids, 2, "poem ids are deduplicated")
	for _, v := range views {
		require.NotNil(t, v.Poem)
		if v.Poem.ID == dawn {
			assert.Equal(t, "Dawn", v.Poem.Title)
		} else {
			assert.Equal(t, "Dusk", v.Poem.Title)
		}
	}

	filtered, err := svc.ListForAdmin(ctx, dawn.Hex())
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, v := range filtered {
		assert.Equal(t, dawn, v.Poem.ID)
	}
}

func TestListForAdminOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	poems := poemrepo.NewMemoryRepo()
	svc := New(repo, poems)
	pid := newPoem(t, poems, "Dawn")

	for _, msg := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, feedback.CreateInput{PoemID: pid.Hex(), Message: msg})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	views, err := svc.ListForAdmin(ctx, pid.Hex())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "third", views[0].Message)
	assert.Equal(t, "first", views[2].Message)
}

func TestListForAdminDeletedPoemResolvesToNil(t *testing.T) {
	ctx := context.Background()
	poems := poemrepo.NewMemoryRepo()
	svc := New(repository.NewMemoryRepo(), poems)
	pid := newPoem(t, poems, "Gone")
	_, err := svc.Create(ctx, feedback.CreateInput{PoemID: pid.Hex(), Message: "m"})
	require.NoError(t, err)
	require.NoError(t, poems.Delete(ctx, pid))

	views, err := svc.ListForAdmin(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Poem)
}

func TestListForAdminUnknownPoemIsEmpty(t *testing.T) {
	titles := &countingTitles{PoemTitleResolver: poemrepo.NewMemoryRepo()}
	svc := New(repository.NewMemoryRepo(), titles)

	views, err := svc.ListForAdmin(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
	assert.Zero(t, titles.calls)
}

func TestListForAdminInvalidFilter(t *testing.T) {
	svc := New(repository.NewMemoryRepo(), poemrepo.NewMemoryRepo())
	_, err := svc.ListForAdmin(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid poem ID", apperr.As(err).Message)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo(), poemrepo.NewMemoryRepo())
	f, err := svc.Create(ctx, feedback.CreateInput{PoemID: primitive.NewObjectID().Hex(), Message: "m"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, f.ID.Hex()))
	err = svc.Delete(ctx, f.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Feedback not found", apperr.As(err).Message)

	err = svc.Delete(ctx, "bad")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Invalid feedback ID", apperr.As(err).Message)
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")
	svc := New(failingRepo{err: down}, poemrepo.NewMemoryRepo())

	_, err := svc.Create(ctx, feedback.CreateInput{PoemID: primitive.NewObjectID().Hex(), Message: "m"})
	assert.True(t, apperr.Is(err, apperr.KindStore))
	assert.ErrorIs(t, err, down)

	_, err = svc.ListForAdmin(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindStore))

	missing := New(failingRepo{err: database.ErrMissingURI}, poemrepo.NewMemoryRepo())
	err = missing.Delete(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperr.Is(err, apperr.KindConfig))
}

func TestTitleLookupFailure(t *testing.T) {
	ctx := context.Background()
	titles := &countingTitles{PoemTitleResolver: poemrepo.NewMemoryRepo(), err: errors.New("timeout")}
	svc := New(repository.NewMemoryRepo(), titles)
	_, err := svc.Create(ctx, feedback.CreateInput{PoemID: primitive.NewObjectID().Hex(), Message: "m"})
	require.NoError(t, err)

	_, err = svc.ListForAdmin(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindStore))
}
