package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	require := require.New(t)
	assert := assert.New(t)

	opt, err := redis.ParseURL(url)
	require.NoError(err)
	client := redis.NewClient(opt)
	defer client.Close()
	require.NoError(client.Ping(context.Background()).Err())

	s := NewRedisStore(client)
	s.prefix = "scs:test:"

	_, found, err := s.Find("missing")
	require.NoError(err)
	assert.False(found)

	require.NoError(s.Commit("tok", []byte("data"), time.Now().Add(time.Minute)))
	b, found, err := s.Find("tok")
	require.NoError(err)
	assert.True(found)
	assert.Equal([]byte("data"), b)

	require.NoError(s.Delete("tok"))
	_, found, err = s.Find("tok")
	require.NoError(err)
	assert.False(found)

	// already expired commits remove the entry
	require.NoError(s.Commit("old", []byte("x"), time.Now().Add(-time.Second)))
	_, found, err = s.Find("old")
	require.NoError(err)
	assert.False(found)
}
