package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/habit-quest/internal/model"
)

func TestCatalogCacheRetriesAfterFailure(t *testing.T) {
	want := []model.Achievement{{ID: 1, Code: "first_step"}}
	calls := 0
	load := func(ctx context.Context) ([]model.Achievement, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return want, nil
	}

	var cache catalogCache

	// A failed load must not be cached; the next call retries.
	_, err := cache.get(context.Background(), load)
	require.Error(t, err)

	got, err := cache.get(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 2, calls)
}

func TestCatalogCacheLoadsOnce(t *testing.T) {
	calls := 0
	load := func(ctx context.Context) ([]model.Achievement, error) {
		calls++
		return []model.Achievement{{ID: 1}}, nil
	}

	var cache catalogCache
	for i := 0; i < 3; i++ {
		got, err := cache.get(context.Background(), load)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, calls)
}

func TestCatalogCacheEmptyCatalogIsCached(t *testing.T) {
	calls := 0
	load := func(ctx context.Context) ([]model.Achievement, error) {
		calls++
		return nil, nil
	}

	var cache catalogCache
	for i := 0; i < 2; i++ {
		got, err := cache.get(context.Background(), load)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 1, calls)
}
