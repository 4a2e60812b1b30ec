package sturdyc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Capacity: 10, TTL: time.Minute, EvictionPercentage: 150})
	assert.Error(t, err)
}

func TestSetGetAndPrefixDelete(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{Capacity: 100, NumShards: 4, TTL: time.Minute})
	require.NoError(t, err)

	for _, k := range []string{"widget/1", "widget/all", "gadget/1"} {
		ok, err := p.Set(ctx, k, []byte(k), 1, 0)
		require.NoError(t, err)
		require.True(t, ok)
	}

	got, ok, err := p.Get(ctx, "widget/1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "widget/1", string(got))

	require.NoError(t, p.DeleteMatched(ctx, "widget/"))
	_, ok, _ = p.Get(ctx, "widget/all")
	assert.False(t, ok)
	_, ok, _ = p.Get(ctx, "gadget/1")
	assert.True(t, ok)

	require.NoError(t, p.Clear(ctx))
	_, ok, _ = p.Get(ctx, "gadget/1")
	assert.False(t, ok)
}
