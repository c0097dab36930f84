// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"sync"

	"github.com/gammazero/deque"
)

// queue is a buffer between a producer that must never block and a consumer channel.
// When capacity is reached the oldest item is discarded and onDrop is called.
// A capacity of zero means unbounded.
type queue[T any] struct {
	sync.Mutex
	items    deque.Deque[T]
	capacity int
	onDrop   func()
	signal   chan struct{}
	out      chan T
	done     chan struct{}
	once     sync.Once
}

func newQueue[T any](capacity int, onDrop func()) *queue[T] {
	q := &queue[T]{
		capacity: capacity,
		onDrop:   onDrop,
		signal:   make(chan struct{}, 1),
		out:      make(chan T),
		done:     make(chan struct{}),
	}
	go q.pump()
	return q
}

// Push appends the item. It never blocks.
func (q *queue[T]) Push(v T) {
	q.Lock()
	select {
	case <-q.done:
		q.Unlock()
		return
	default:
	}
	dropped := false
	if q.capacity > 0 {
		for q.items.Len() >= q.capacity {
			q.items.PopFront() // discard oldest
			dropped = true
		}
	}
	q.items.PushBack(v)
	q.Unlock()
	if dropped && q.onDrop != nil {
		q.onDrop()
	}
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Len returns the number of buffered items.
func (q *queue[T]) Len() int {
	q.Lock()
	defer q.Unlock()
	return q.items.Len()
}

// Out returns the channel the items are delivered on, in push order.
// The channel is closed after Close.
func (q *queue[T]) Out() <-chan T {
	return q.out
}

// Close stops delivery. Buffered items are discarded.
func (q *queue[T]) Close() {
	q.once.Do(func() {
		q.Lock()
		close(q.done)
		q.items.Clear()
		q.Unlock()
	})
}

func (q *queue[T]) pump() {
	defer close(q.out)
	for {
		q.Lock()
		if q.items.Len() == 0 {
			q.Unlock()
			select {
			case <-q.signal:
				continue
			case <-q.done:
				return
			}
		}
		v := q.items.PopFront()
		q.Unlock()
		select {
		case q.out <- v:
		case <-q.done:
			return
		}
	}
}
