package tilecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPersistentIndex_RoundTripsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	idx, closer, err := OpenPersistentIndex(dir, 100)
	require.NoError(t, err)
	idx.Touch(5, 10, 20, time.Now())
	require.NoError(t, closer())

	idx2, closer2, err := OpenPersistentIndex(dir, 100)
	require.NoError(t, err)
	defer closer2()

	_, ok := idx2.LastServed(5, 10, 20)
	assert.True(t, ok)
}

func TestOpenPersistentIndex_EmptyOnFirstOpen(t *testing.T) {
	dir := t.TempDir()

	idx, closer, err := OpenPersistentIndex(dir, 100)
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, 0, idx.Len())
}
