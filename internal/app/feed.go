package app

import (
	"sync"

	"eduquiz-service/internal/domain"
)

// Feed fans graded-submission events out to live dashboard subscribers.
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.FeedEvent]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[chan domain.FeedEvent]struct{})}
}

// Subscribe returns a channel of feed events. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *Feed) Subscribe() (<-chan domain.FeedEvent, func()) {
	ch := make(chan domain.FeedEvent, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber. Slow subscribers lose their
// oldest buffered event instead of blocking the grading path.
func (f *Feed) Publish(event domain.FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
