package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/poiesic/corpora/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_OpenClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestBackend_WithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("propagates failure", func(t *testing.T) {
		boom := errors.New("boom")
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}

func TestBackend_CapacityBound(t *testing.T) {
	backend, err := OpenBackend("", true, WithCapacity(1), WithAcquireWait(50*time.Millisecond))
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	holding := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = backend.WithTx(ctx, func(tx *badgerdb.Txn) error {
			close(holding)
			time.Sleep(300 * time.Millisecond)
			return nil
		}, false)
	}()

	<-holding
	err = backend.WithTx(ctx, func(tx *badgerdb.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	<-done

	t.Run("capacity freed after release", func(t *testing.T) {
		err := backend.WithTx(ctx, func(tx *badgerdb.Txn) error { return nil }, false)
		assert.NoError(t, err)
	})

	t.Run("cancelled context refused", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		release, err := backend.acquire(ctx)
		require.NoError(t, err)
		defer release()
		err = backend.WithTx(cancelled, func(tx *badgerdb.Txn) error { return nil }, false)
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestBackend_InvalidOptions(t *testing.T) {
	_, err := OpenBackend("", true, WithCapacity(0))
	assert.Error(t, err)

	_, err = OpenBackend("", true, WithAcquireWait(0))
	assert.Error(t, err)
}
