package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/photoenhance"
	"github.com/vearutop/photoenhance/internal/store"
)

func TestResults(t *testing.T) {
	s, err := store.New(2)
	require.NoError(t, err)

	a := s.Put(&photoenhance.EnhanceResult{Width: 1})
	b := s.Put(&photoenhance.EnhanceResult{Width: 2})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Len())

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Result.Width)

	// a was used recently, b is evicted.
	c := s.Put(&photoenhance.EnhanceResult{Width: 3})
	assert.Equal(t, 2, s.Len())

	_, err = s.Get(b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Result.Width)
}

func TestResults_Get_invalidID(t *testing.T) {
	s, err := store.New(1)
	require.NoError(t, err)

	_, err = s.Get("../etc/passwd")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNew_invalidSize(t *testing.T) {
	_, err := store.New(0)
	require.Error(t, err)
}
