package tiledownloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PriorityBeforeNormal(t *testing.T) {
	q := NewQueue()
	q.Push(Job{Z: 1, X: 1, Y: 1, Priority: false})
	q.Push(Job{Z: 2, X: 2, Y: 2, Priority: true})

	job, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, Job{Z: 2, X: 2, Y: 2, Priority: true}, job)

	job, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, Job{Z: 1, X: 1, Y: 1, Priority: false}, job)
}

func TestQueue_FIFOWithinClass(t *testing.T) {
	q := NewQueue()
	q.Push(Job{Z: 0, X: 0, Y: 0})
	q.Push(Job{Z: 0, X: 0, Y: 1})
	q.Push(Job{Z: 0, X: 0, Y: 2})

	for _, want := range []int{0, 1, 2} {
		job, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, job.Y)
	}
}

func TestQueue_PopEmpty(t *testing.T) {
	q := NewQueue()
	_, ok := q.Pop()
	assert.False(t, ok)
}
