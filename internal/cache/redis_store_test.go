//go:build !integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(RedisConfig{Addr: mr.Addr(), KeyPrefix: prefix})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SetGet(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.SetWithExpiry(ctx, "customer:id:rec1", []byte(`{"id":"rec1"}`), time.Minute))

	got, err := s.Get(ctx, "customer:id:rec1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"rec1"}`, string(got))
	assert.Equal(t, time.Minute, mr.TTL("customer:id:rec1"))
}

func TestRedisStore_GetMissIsNotAnError(t *testing.T) {
	s, _ := newMiniredisStore(t, "")

	got, err := s.Get(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.SetWithExpiry(ctx, "k", []byte("1"), time.Second))
	got, _ := s.Get(ctx, "k")
	assert.NotNil(t, got)

	mr.FastForward(2 * time.Second)

	got, err := s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Delete(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	ctx := context.Background()

	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	assert.NoError(t, s.Delete(ctx))
	assert.NoError(t, s.Delete(ctx, "a", "absent"))

	assert.False(t, mr.Exists("a"))
	assert.True(t, mr.Exists("b"))
}

func TestRedisStore_DeleteByPattern(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	ctx := context.Background()

	// More keys than one SCAN batch.
	for i := 0; i < scanBatchSize*3; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("company:id:X:%d", i), "1"))
	}
	require.NoError(t, mr.Set("expenses:company:X", "1"))
	require.NoError(t, mr.Set("customer:email:other@x.com", "1"))

	require.NoError(t, s.DeleteByPattern(ctx, "company:*"))
	require.NoError(t, s.DeleteByPattern(ctx, "nomatch:*"))

	assert.Equal(t, []string{"customer:email:other@x.com", "expenses:company:X"}, mr.Keys())
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	s, mr := newMiniredisStore(t, "rd:")
	ctx := context.Background()

	require.NoError(t, s.SetWithExpiry(ctx, "company:id:X", []byte("1"), time.Minute))
	assert.True(t, mr.Exists("rd:company:id:X"))

	require.NoError(t, mr.Set("company:id:X", "unprefixed"))
	require.NoError(t, s.DeleteByPattern(ctx, "company:*"))

	assert.False(t, mr.Exists("rd:company:id:X"))
	assert.True(t, mr.Exists("company:id:X"))
}

func TestRedisStore_Ping(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	assert.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}

func TestRedisStore_BackendDown(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	mr.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, s.SetWithExpiry(ctx, "k", []byte("1"), time.Minute))
	assert.Error(t, s.Delete(ctx, "k"))
	assert.Error(t, s.DeleteByPattern(ctx, "k*"))
}

func TestNewRedisStore_Defaults(t *testing.T) {
	s := NewRedisStore(RedisConfig{})
	defer func() { _ = s.Close() }()

	assert.Equal(t, DefaultRedisConfig().OpTimeout, s.opTimeout)
}

func TestRedisStore_DeleteByPattern_LargeKeyspace(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(RedisConfig{Addr: mr.Addr(), OpTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	const matching = 5000
	for i := 0; i < matching; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("api:response:/api/customers/recCUS1:%d", i), "x"))
	}
	require.NoError(t, mr.Set("api:response:/api/pricing:1", "x"))

	require.NoError(t, s.DeleteByPattern(ctx, "api:response:/api/customers/recCUS1*"))

	assert.Len(t, mr.Keys(), 1)
	assert.True(t, mr.Exists("api:response:/api/pricing:1"))
}

func TestRedisStore_DeleteByPattern_CallerCancelled(t *testing.T) {
	s, mr := newMiniredisStore(t, "")
	require.NoError(t, mr.Set("customer:id:1", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.DeleteByPattern(ctx, "customer:*"), context.Canceled)
	assert.True(t, mr.Exists("customer:id:1"))
}
