package revocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("not revoked by default", func(t *testing.T) {
		s := NewMemoryStore()

		revoked, err := s.IsRevoked(t.Context(), "some-token")

		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("revoke then check", func(t *testing.T) {
		s := NewMemoryStore()

		err := s.Revoke(t.Context(), "some-token", time.Minute)
		require.NoError(t, err)

		revoked, err := s.IsRevoked(t.Context(), "some-token")
		require.NoError(t, err)
		require.True(t, revoked, "revoke must be visible to subsequent checks")
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Revoke(t.Context(), "some-token", time.Minute))
		require.NoError(t, s.Revoke(t.Context(), "some-token", time.Minute))

		revoked, err := s.IsRevoked(t.Context(), "some-token")
		require.NoError(t, err)
		require.True(t, revoked)
	})

	t.Run("second revoke can't shorten expiry", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Revoke(t.Context(), "some-token", time.Hour))
		require.NoError(t, s.Revoke(t.Context(), "some-token", time.Nanosecond))

		time.Sleep(10 * time.Millisecond)

		revoked, err := s.IsRevoked(t.Context(), "some-token")
		require.NoError(t, err)
		require.True(t, revoked, "the longer expiry should win")
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, s.Revoke(t.Context(), "some-token", 10*time.Millisecond))

		time.Sleep(20 * time.Millisecond)

		revoked, err := s.IsRevoked(t.Context(), "some-token")
		require.NoError(t, err)
		require.False(t, revoked, "expired entry means the token expired anyway")
	})
}
