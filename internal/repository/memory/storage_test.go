package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
)

func Test_UserRepo(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		r := NewStorage().User()

		created, err := r.CreateUser(t.Context(), "Nikita", "nk@example.com", "hash")
		require.NoError(t, err)

		byID, err := r.GetUserByID(t.Context(), created.ID)
		require.NoError(t, err)
		require.Equal(t, created, byID)

		byEmail, err := r.GetUserByEmail(t.Context(), "nk@example.com")
		require.NoError(t, err)
		require.Equal(t, created, byEmail)
	})

	t.Run("duplicate email", func(t *testing.T) {
		r := NewStorage().User()
		_, err := r.CreateUser(t.Context(), "Nikita", "nk@example.com", "hash")
		require.NoError(t, err)

		_, err = r.CreateUser(t.Context(), "Other", "nk@example.com", "hash")

		require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})

	t.Run("concurrent create with same email", func(t *testing.T) {
		r := NewStorage().User()

		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.CreateUser(context.Background(), "Nikita", "nk@example.com", "hash")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		created := 0
		for err := range errs {
			if err == nil {
				created++
				continue
			}
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		}
		require.Equal(t, 1, created, "only one user may own the email")
	})

	t.Run("not found", func(t *testing.T) {
		r := NewStorage().User()

		_, err := r.GetUserByID(t.Context(), uuid.New())
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)

		_, err = r.GetUserByEmail(t.Context(), "nk@example.com")
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)

		_, err = r.UpdatePassword(t.Context(), uuid.New(), "hash")
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("update password", func(t *testing.T) {
		r := NewStorage().User()
		created, err := r.CreateUser(t.Context(), "Nikita", "nk@example.com", "old")
		require.NoError(t, err)

		_, err = r.UpdatePassword(t.Context(), created.ID, "new")
		require.NoError(t, err)

		got, err := r.GetUserByEmail(t.Context(), "nk@example.com")
		require.NoError(t, err)
		require.Equal(t, "new", got.HashedPassword)
	})

	t.Run("cancelled context", func(t *testing.T) {
		r := NewStorage().User()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := r.CreateUser(ctx, "Nikita", "nk@example.com", "hash")

		require.ErrorIs(t, err, context.Canceled)
	})
}

func Test_LayoutRepo(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		r := NewStorage().Layout()

		_, err := r.GetLatestLayout(t.Context())

		require.ErrorIs(t, err, apperrors.ErrLayoutNotFound)
	})

	t.Run("saved layout is not affected by caller", func(t *testing.T) {
		r := NewStorage().Layout()
		items := []models.GridItem{{I: "0", W: 1, H: 1}}

		saved, err := r.SaveLayout(t.Context(), items, nil)
		require.NoError(t, err)
		items[0].I = "changed"

		got, err := r.GetLatestLayout(t.Context())
		require.NoError(t, err)
		require.Equal(t, saved.ID, got.ID)
		require.Equal(t, "0", got.Items[0].I)
		require.NotNil(t, got.Components, "missing components are stored as empty list")
	})
}
