package store

import "sync"

// Subscription is a live query result channel. Snapshots are always
// full, consistently ordered result sets, never deltas. A slow
// consumer sees rapid successive changes coalesced into the latest
// snapshot.
type Subscription struct {
	mu        sync.Mutex
	snapshots chan []Document
	closed    bool
	detach    func()
	once      sync.Once
}

// NewSubscription builds a subscription with the given channel
// capacity. detach releases the backend listener and may be nil.
func NewSubscription(buffer int, detach func()) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	return &Subscription{
		snapshots: make(chan []Document, buffer),
		detach:    detach,
	}
}

// Noop returns a subscription that never delivers and whose
// Unsubscribe does nothing. Used when the caller asked for a live
// query it cannot have (missing id, backend failure): the fault is
// logged, not thrown.
func Noop() *Subscription {
	s := &Subscription{snapshots: make(chan []Document)}
	s.once.Do(func() {})
	close(s.snapshots)
	s.closed = true
	return s
}

// Snapshots yields the full current result set after every change.
// The channel is closed by Unsubscribe.
func (s *Subscription) Snapshots() <-chan []Document {
	return s.snapshots
}

// Publish hands a snapshot to the consumer. When the buffer is full
// the stalest queued snapshot is dropped, so the consumer always
// converges on the latest state. Called by backends only.
func (s *Subscription) Publish(docs []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.snapshots <- docs:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}

// Unsubscribe releases the backend listener and closes the snapshot
// channel. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		s.mu.Lock()
		s.closed = true
		close(s.snapshots)
		s.mu.Unlock()
	})
}
