// Package live bridges store writes to screen reconcilers: every mutation
// re-queries the affected table and re-emits a full snapshot to all
// subscribers.
package live

import "sync"

// Feed fans a stream of snapshots out to subscribers. Each subscriber channel
// is conflated: a slow consumer skips intermediate snapshots but always
// receives the newest one. New subscribers immediately receive the latest
// published snapshot, if any.
type Feed[T any] struct {
	mu     sync.RWMutex
	subs   map[chan T]struct{}
	latest T
	ready  bool
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a subscriber and returns its channel plus a cancel
// function. Cancel is idempotent and closes the channel.
func (f *Feed[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	if f.ready {
		ch <- f.latest
	}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the snapshot to every subscriber, replacing any snapshot a
// subscriber has not yet consumed.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = v
	f.ready = true

	for ch := range f.subs {
		select {
		case ch <- v:
		default:
			// Subscriber lagging: swap the stale snapshot for the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (f *Feed[T]) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
