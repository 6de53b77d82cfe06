package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/config"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	feedbackrepo "github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/repository"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	poemrepo "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memObjects struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memObjects) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://objects.local/" + key + "?ttl=" + ttl.String(), nil
}

func TestSnapshotKey(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 45, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "snapshots/poetbyte-20240501T103045Z.json", SnapshotKey(ts))
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	poems := poemrepo.NewMemoryRepo()
	feedbacks := feedbackrepo.NewMemoryRepo()

	p := &poem.Poem{Title: "Dawn", Content: "Light breaks.", Author: poem.DefaultAuthor}
	require.NoError(t, poems.Create(ctx, p))
	require.NoError(t, feedbacks.Create(ctx, &feedback.Feedback{PoemID: p.ID, Message: "Lovely."}))

	objects := newMemObjects()
	exp := NewExporter(objects, poems, feedbacks)
	exp.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	res, err := exp.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snapshots/poetbyte-20240501T120000Z.json", res.Key)
	assert.Contains(t, res.URL, res.Key)
	assert.Contains(t, res.URL, "ttl=15m0s")
	assert.Equal(t, "application/json", objects.types[res.Key])

	var snap struct {
		GeneratedAt time.Time                `json:"generatedAt"`
		Poems       []map[string]interface{} `json:"poems"`
		Feedbacks   []map[string]interface{} `json:"feedbacks"`
	}
	require.NoError(t, json.Unmarshal(objects.objects[res.Key], &snap))
	require.Len(t, snap.Poems, 1)
	require.Len(t, snap.Feedbacks, 1)
	assert.Equal(t, "Dawn", snap.Poems[0]["title"])
	assert.Equal(t, p.ID.Hex(), snap.Feedbacks[0]["poemId"])
}

func TestExportUploadFailure(t *testing.T) {
	objects := newMemObjects()
	objects.putErr = errors.New("access denied")
	exp := NewExporter(objects, poemrepo.NewMemoryRepo(), feedbackrepo.NewMemoryRepo())

	_, err := exp.Export(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, objects.putErr)
	assert.Empty(t, objects.objects)
}

func TestNewMinIOStoreRequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStore(context.Background(), config.MinIOConfig{Bucket: "poetbyte"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
