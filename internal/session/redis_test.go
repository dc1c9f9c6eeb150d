package session_test

import (
	"context"
	"net"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/session"
)

// requireRedis skips unless REDIS_URL points at a reachable server.
func requireRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis test in short mode")
	}
	raw := os.Getenv("REDIS_URL")
	if raw == "" {
		t.Skip("REDIS_URL not set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Skipf("bad REDIS_URL: %v", err)
	}
	conn, err := net.DialTimeout("tcp", u.Host, time.Second)
	if err != nil {
		t.Skipf("Redis not reachable at %s", u.Host)
	}
	conn.Close()
	return raw
}

func TestRedisStore_Lifecycle(t *testing.T) {
	s, err := session.NewRedisStore(requireRedis(t), time.Minute)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	a, err := s.Create(ctx, "user-1")
	require.NoError(t, err)
	b, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	got, err := s.Lookup(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)

	require.NoError(t, s.Delete(ctx, a))
	_, err = s.Lookup(ctx, a)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, s.DeleteForUser(ctx, "user-1"))
	_, err = s.Lookup(ctx, b)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := session.NewRedisStore("not a url", time.Minute)
	assert.Error(t, err)
}
