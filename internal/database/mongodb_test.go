package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestManager_MissingURI(t *testing.T) {
	m := NewManager("", "poetbyte", time.Second)
	_, err := m.Client(context.Background())
	require.ErrorIs(t, err, ErrMissingURI)
	require.False(t, m.Connected())
}

func TestManager_ConnectsOnceAndReuses(t *testing.T) {
	var calls int32
	m := NewManager("mongodb://example:27017", "poetbyte", time.Second)
	m.connect = func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
		atomic.AddInt32(&calls, 1)
		return &mongo.Client{}, nil
	}

	var wg sync.WaitGroup
	clients := make([]*mongo.Client, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := m.Client(context.Background())
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, c := range clients {
		require.Same(t, clients[0], c)
	}
	require.True(t, m.Connected())
}

func TestManager_FailedConnectIsRetriedOnNextCall(t *testing.T) {
	var calls int32
	m := NewManager("mongodb://example:27017", "poetbyte", time.Second)
	m.connect = func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("connection refused")
		}
		return &mongo.Client{}, nil
	}

	_, err := m.Client(context.Background())
	require.Error(t, err)
	require.False(t, m.Connected())

	c, err := m.Client(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
