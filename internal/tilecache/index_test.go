package tilecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_TouchAndLastServed(t *testing.T) {
	idx := NewIndex(16)
	now := time.Now()

	idx.Touch(1, 2, 3, now)

	got, ok := idx.LastServed(1, 2, 3)
	require.True(t, ok)
	assert.True(t, got.Equal(now))
}

func TestIndex_MissUntrackedTile(t *testing.T) {
	idx := NewIndex(16)
	_, ok := idx.LastServed(9, 9, 9)
	assert.False(t, ok)
}
