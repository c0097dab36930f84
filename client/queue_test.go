// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/assert"
)

func receive(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case v, ok := <-ch:
		assert.Assert(t, ok, "queue closed")
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for queue")
		return 0
	}
}

func TestQueueOrder(t *testing.T) {
	q := newQueue[int](0, nil)
	defer q.Close()
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, receive(t, q.Out()), i)
	}
}

func TestQueueDiscardOldest(t *testing.T) {
	var drops int32
	q := newQueue[int](3, func() { atomic.AddInt32(&drops, 1) })
	defer q.Close()
	for i := 1; i <= 10; i++ {
		q.Push(i)
	}
	// one item may already be in flight when the queue overflows
	var got []int
	for {
		select {
		case v := <-q.Out():
			got = append(got, v)
			continue
		case <-time.After(100 * time.Millisecond):
		}
		break
	}
	assert.Assert(t, len(got) == 3 || len(got) == 4, "got %v", got)
	assert.DeepEqual(t, got[len(got)-3:], []int{8, 9, 10})
	assert.Equal(t, int(atomic.LoadInt32(&drops)), 10-len(got))
}

func TestQueueClose(t *testing.T) {
	q := newQueue[int](0, nil)
	q.Push(1)
	q.Close()
	q.Close()
	q.Push(2)
	for range q.Out() {
	}
	assert.Equal(t, q.Len(), 0)
}
