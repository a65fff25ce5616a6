package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) *LocalStore {
	s, err := NewLocalStore(t.TempDir(), "http://registry.test", "signing-secret", ttl)
	require.NoError(t, err)
	return s
}

func TestLocalStore_PutGetDelete(t *testing.T) {
	s := newStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "individual/APL-MBR-2025-0001/id.pdf", "application/pdf", []byte("%PDF-1.4")))

	data, err := s.Get(ctx, "individual/APL-MBR-2025-0001/id.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, "individual/APL-MBR-2025-0001/id.pdf"))
	_, err = s.Get(ctx, "individual/APL-MBR-2025-0001/id.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s := newStore(t, time.Minute)
	err := s.Put(context.Background(), "../escape.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStore_PresignAndResolve(t *testing.T) {
	s := newStore(t, time.Minute)

	link, err := s.PresignGet("a/b.pdf", "b.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "http://registry.test/api/v1/files/"))

	token, err := url.PathUnescape(strings.TrimPrefix(link.URL, "http://registry.test/api/v1/files/"))
	require.NoError(t, err)

	key, filename, err := s.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "a/b.pdf", key)
	assert.Equal(t, "b.pdf", filename)

	_, _, err = s.Resolve(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalStore_ExpiredLink(t *testing.T) {
	s := newStore(t, time.Minute)
	s.ttl = -time.Second

	link, err := s.PresignGet("a/b.pdf", "b.pdf")
	require.NoError(t, err)
	token, _ := url.PathUnescape(strings.TrimPrefix(link.URL, "http://registry.test/api/v1/files/"))

	_, _, err = s.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
