package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/internal/portal/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return NewStore() })
}

func TestStore_Closed(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Ping(context.Background()), ErrClosed)
	_, err := s.Users().GetUserByEmail(context.Background(), "a@example.com")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.WithTx(context.Background(), func(store.Tx) error { return nil }), ErrClosed)
}

func TestStore_ConcurrentRegistration(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.WithTx(ctx, func(tx store.Tx) error {
				return tx.Users().CreateUser(ctx, storetest.User("race@example.com", false))
			})
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, store.ErrAlreadyExists)
			dup++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, workers-1, dup)
}
