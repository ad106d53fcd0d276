package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitrije/socketkey-api/internal/models"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 9, 7, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryStore_SetGetExists(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	rec := models.APIKeyRecord{UserID: "user-42", ExpiresAt: clock.Now().Add(5 * time.Second)}
	require.NoError(t, s.Set(ctx, "abc123", rec, 5*time.Second))

	ok, err := s.Exists(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.Key)
	assert.Equal(t, "user-42", got.UserID)
	assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", models.APIKeyRecord{UserID: "u"}, 5*time.Second))

	clock.Advance(5 * time.Second)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Missing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RejectsNonPositiveTTL(t *testing.T) {
	s := NewMemoryStore()

	err := s.Set(context.Background(), "k", models.APIKeyRecord{UserID: "u"}, 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestMemoryStore_CleanupExpired(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", models.APIKeyRecord{UserID: "u"}, time.Second))
	require.NoError(t, s.Set(ctx, "long", models.APIKeyRecord{UserID: "u"}, time.Hour))

	clock.Advance(time.Minute)

	removed, err := s.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	ok, err := s.Exists(ctx, "long")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecodeRecord_Corrupt(t *testing.T) {
	_, err := decodeRecord("k", []byte("{not json"))
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestRunCleanup_StopsWithContext(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStore().WithClock(clock.Now)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Set(ctx, "k", models.APIKeyRecord{UserID: "u"}, time.Second))
	clock.Advance(time.Minute)

	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, s, 5*time.Millisecond, nil)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.entries) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
