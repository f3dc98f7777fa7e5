package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newMiniredisStore(t, time.Hour)
	ctx := context.Background()

	rec := Record{
		SubjectID:   "user-1",
		DisplayName: "Asha",
		Role:        RoleAdmin,
		ResolvedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.SubjectID, got.SubjectID)
	assert.Equal(t, rec.Role, got.Role)
	assert.Equal(t, rec.DisplayName, got.DisplayName)
}

func TestRedisStoreMissIsNilNil(t *testing.T) {
	s, _ := newMiniredisStore(t, time.Hour)

	got, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreExpiresWithTTL(t *testing.T) {
	s, mr := newMiniredisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Record{SubjectID: "user-2", Role: RoleWorker, ResolvedAt: time.Now()}))

	mr.FastForward(2 * time.Minute)

	got, err := s.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreMalformedEntryIsAMiss(t *testing.T) {
	s, mr := newMiniredisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set("session:user-3", "{not json"))

	got, err := s.Get(ctx, "user-3")
	require.NoError(t, err)
	assert.Nil(t, got)

	// The bad entry is cleaned up, not left to trip the next read.
	assert.False(t, mr.Exists("session:user-3"))
}

func TestRedisStoreRejectsUnknownRole(t *testing.T) {
	s, mr := newMiniredisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set("session:user-4", `{"subject_id":"user-4","role":"root"}`))

	got, err := s.Get(ctx, "user-4")
	require.NoError(t, err)
	assert.Nil(t, got, "a tampered role must never resolve as staff")
}

func TestRedisStoreDelete(t *testing.T) {
	s, _ := newMiniredisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Record{SubjectID: "user-5", Role: RoleSuperuser, ResolvedAt: time.Now()}))
	require.NoError(t, s.Delete(ctx, "user-5"))

	got, err := s.Get(ctx, "user-5")
	require.NoError(t, err)
	assert.Nil(t, got)
}
