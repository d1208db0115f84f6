package repository

import (
	"context"
	"edusphere_backend/internal/util"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, "edusphere:"), mr
}

func TestRedisStoreContract(t *testing.T) {
	s, _ := newRedisStore(t)
	testStoreContract(t, s)
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, s.Put(context.Background(), util.KeyGroups, []byte(`[]`)))

	assert.True(t, mr.Exists("edusphere:userGroups"))
	assert.False(t, mr.Exists("userGroups"))
	assert.Zero(t, mr.TTL("edusphere:userGroups"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	assert.Error(t, s.Ping(context.Background()))
	_, ok := NewStateRepository(s).LoadUser(context.Background())
	assert.False(t, ok)
}
