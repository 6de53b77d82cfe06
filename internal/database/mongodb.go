package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const socketTimeout = 45 * time.Second

// ErrMissingURI is returned by Manager when no connection string was configured.
var ErrMissingURI = errors.New("mongo connection string is not configured")

// CollectionSource hands out collections; mongo repositories depend only on this.
type CollectionSource interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetSocketTimeout(socketTimeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type connectFunc func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)

// Manager owns the process-wide Mongo client. The first successful Client call
// connects; later calls reuse that client. Failed attempts are not cached.
type Manager struct {
	uri      string
	database string
	timeout  time.Duration
	connect  connectFunc

	mu     sync.Mutex
	client *mongo.Client
}

// NewManager returns a Manager that connects lazily on first use.
func NewManager(uri, database string, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Manager{uri: uri, database: database, timeout: timeout, connect: ConnectMongo}
}

// Client returns the shared client, connecting on first use.
func (m *Manager) Client(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return m.client, nil
	}
	if m.uri == "" {
		return nil, ErrMissingURI
	}
	client, err := m.connect(ctx, m.uri, m.timeout)
	if err != nil {
		return nil, err
	}
	m.client = client
	return client, nil
}

// Collection implements CollectionSource.
func (m *Manager) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.database).Collection(name), nil
}

// Connected reports whether a client has been established.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Ping connects if needed and round-trips to the primary.
func (m *Manager) Ping(ctx context.Context) error {
	client, err := m.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, nil)
}

// Close disconnects the shared client if one was established.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
