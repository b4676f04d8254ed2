package tiledownloader

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tdoa-platform/core/internal/cache"
)

// Job describes a single tile fetch.
type Job struct {
	Z, X, Y  int
	Priority bool
}

// Queue is an unbounded FIFO-with-priority-bit job queue: priority jobs
// are always dequeued before normal ones, and jobs within the same class
// are served in the order they were enqueued. It is built on two
// timestamp-ordered min-heaps so enqueue order becomes dequeue order
// within each class.
type Queue struct {
	priority *cache.MinHeap[Job]
	normal   *cache.MinHeap[Job]
	seq      int64
}

// NewQueue builds an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		priority: cache.NewMinHeap[Job](0),
		normal:   cache.NewMinHeap[Job](0),
	}
}

// Push enqueues a job into its priority or normal class.
func (q *Queue) Push(job Job) {
	seq := atomic.AddInt64(&q.seq, 1)
	key := strconv.FormatInt(seq, 10)
	now := time.Now()
	if job.Priority {
		q.priority.Push(key, job, now)
	} else {
		q.normal.Push(key, job, now)
	}
}

// Pop removes and returns the next job to run: the oldest priority job if
// one exists, otherwise the oldest normal job. The bool is false if the
// queue is empty.
func (q *Queue) Pop() (Job, bool) {
	if entry := q.priority.Pop(); entry != nil {
		return entry.Value, true
	}
	if entry := q.normal.Pop(); entry != nil {
		return entry.Value, true
	}
	return Job{}, false
}

// Len returns the total number of queued jobs across both classes.
func (q *Queue) Len() int {
	return q.priority.Len() + q.normal.Len()
}
