package password

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/oops"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newHasher(t *testing.T, cfg Config) *BcryptHasher {
	t.Helper()

	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.MinCost // Keep tests fast
	}
	h, err := New(cfg)
	require.NoError(t, err, "hasher should be created without errors")
	return h
}

func Test_New(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		h, err := New(Config{})
		require.NoError(t, err)

		require.Equal(t, DefaultCost, h.cost, "default cost should be set")
		require.NotNil(t, h.slots, "semaphore should be initialized")
	})

	t.Run("invalid cost", func(t *testing.T) {
		_, err := New(Config{Cost: bcrypt.MaxCost + 1})

		require.Error(t, err, "cost above bcrypt max must be rejected")
	})
}

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	h := newHasher(t, Config{})

	t.Run("hash password", func(t *testing.T) {
		got, err := h.Hash(t.Context(), "password")
		require.NoError(t, err)

		require.Len(t, got, 60, "bcrypt hash is 60 letters long")
		require.Equal(t, "$2a$", got[:4], "bcrypt hash should have prefix '$2a$'")
		require.NotEqual(t, "password", got, "hash must not be the plaintext")
	})

	t.Run("same password different hashes", func(t *testing.T) {
		first, err := h.Hash(t.Context(), "password")
		require.NoError(t, err)
		second, err := h.Hash(t.Context(), "password")
		require.NoError(t, err)

		require.NotEqual(t, first, second, "every hash has to use own salt")

		for _, hash := range []string{first, second} {
			ok, err := h.Verify(t.Context(), "password", hash)
			require.NoError(t, err)
			require.True(t, ok, "both hashes should be verifiable")
		}
	})

	t.Run("empty password fail", func(t *testing.T) {
		_, err := h.Hash(t.Context(), "")

		require.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("long password ok", func(t *testing.T) {
		long := string(make([]byte, 200)) + "tail"
		hash, err := h.Hash(t.Context(), long)
		require.NoError(t, err, "passwords longer than 72 bytes should be hashed too")

		ok, err := h.Verify(t.Context(), string(make([]byte, 200))+"other", hash)
		require.NoError(t, err)
		require.False(t, ok, "difference after 72 bytes must be noticed")
	})

	t.Run("verify ok", func(t *testing.T) {
		hash, err := h.Hash(t.Context(), "password")
		require.NoError(t, err)

		ok, err := h.Verify(t.Context(), "password", hash)

		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("verify wrong password", func(t *testing.T) {
		hash, err := h.Hash(t.Context(), "password")
		require.NoError(t, err)

		ok, err := h.Verify(t.Context(), "wrong", hash)

		require.NoError(t, err, "mismatch is not an error")
		require.False(t, ok)
	})

	t.Run("verify malformed hash", func(t *testing.T) {
		ok, err := h.Verify(t.Context(), "password", "not-a-bcrypt-hash")

		require.Error(t, err)
		require.False(t, ok)
		oopsErr, isOops := oops.AsOops(err)
		require.True(t, isOops, "error should carry code")
		require.Equal(t, "PASSWORD_MALFORMED_HASH", oopsErr.Code())
	})
}

func Test_BcryptHasher_Slots(t *testing.T) {
	t.Run("cancelled context", func(t *testing.T) {
		h := newHasher(t, Config{Concurrency: 1})

		// Occupy the only slot
		require.NoError(t, h.slots.Acquire(t.Context(), 1))
		defer h.slots.Release(1)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := h.Hash(ctx, "password")
		require.ErrorIs(t, err, context.Canceled, "should stop waiting for slot when context is done")

		_, err = h.Verify(ctx, "password", "$2a$04$abc")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent hashing", func(t *testing.T) {
		h := newHasher(t, Config{Concurrency: 2})

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Hash(context.Background(), "password")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("observe durations", func(t *testing.T) {
		durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_hash_seconds"}, []string{"op"})
		h := newHasher(t, Config{Durations: durations})

		hash, err := h.Hash(t.Context(), "password")
		require.NoError(t, err)
		_, err = h.Verify(t.Context(), "password", hash)
		require.NoError(t, err)

		require.Equal(t, 2, testutil.CollectAndCount(durations), "hash and verify should be observed")
	})
}
