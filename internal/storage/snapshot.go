package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PresignTTL is how long the returned download link stays valid.
const PresignTTL = 15 * time.Minute

// ObjectStore is the subset of MinIOStore the exporter needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type PoemLister interface {
	List(ctx context.Context) ([]*poem.Poem, error)
}

type FeedbackLister interface {
	List(ctx context.Context, poemID *primitive.ObjectID) ([]*feedback.Feedback, error)
}

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	Poems       []*poem.Poem         `json:"poems"`
	Feedbacks   []*feedback.Feedback `json:"feedbacks"`
}

// Result locates an uploaded snapshot.
type Result struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Exporter dumps every poem and feedback record into the object store.
type Exporter struct {
	store     ObjectStore
	poems     PoemLister
	feedbacks FeedbackLister
	now       func() time.Time
}

func NewExporter(store ObjectStore, poems PoemLister, feedbacks FeedbackLister) *Exporter {
	return &Exporter{
		store:     store,
		poems:     poems,
		feedbacks: feedbacks,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SnapshotKey names the object for a snapshot taken at ts.
func SnapshotKey(ts time.Time) string {
	return "snapshots/poetbyte-" + ts.UTC().Format("20060102T150405Z") + ".json"
}

func (e *Exporter) build(ctx context.Context) (*Snapshot, error) {
	poems, err := e.poems.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list poems: %w", err)
	}
	feedbacks, err := e.feedbacks.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	return &Snapshot{GeneratedAt: e.now(), Poems: poems, Feedbacks: feedbacks}, nil
}

// Export uploads a snapshot and returns its key and a presigned link.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	snap, err := e.build(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := SnapshotKey(snap.GeneratedAt)
	if err := e.store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	link, err := e.store.PresignGet(ctx, key, PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &Result{Key: key, URL: link}, nil
}
