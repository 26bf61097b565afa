package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	value := []byte("v1")
	require.NoError(t, m.Set(ctx, "k", value))
	// Изменение исходного среза не влияет на хранимое значение
	value[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, m.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
	got, err = m.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)

	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, m.Close())
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrStorageClosed)
	assert.ErrorIs(t, m.Set(ctx, "a", nil), ErrStorageClosed)
}
