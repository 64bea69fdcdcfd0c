package contentstore

import (
	"sync"

	"github.com/yungbote/studyaid-backend/internal/domain"
)

type EventKind string

const (
	EventLoading EventKind = "loading"
	EventStored  EventKind = "stored"
	EventFailed  EventKind = "failed"
)

// Event reports a state change for one key. Err is set on EventFailed and on
// EventStored when the entry was kept but could not be persisted.
type Event struct {
	Key  domain.ContentKey
	Kind EventKind
	Err  error
}

type Subscription struct {
	C     <-chan Event
	ch    chan Event
	store *Store
	once  sync.Once
}

// Subscribe registers a listener. Events are dropped for a subscriber whose
// buffer is full.
func (s *Store) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	sub := &Subscription{C: ch, ch: ch, store: s}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.subsClosed {
		sub.close()
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

// Close unsubscribes and closes C.
func (sub *Subscription) Close() {
	sub.store.subsMu.Lock()
	defer sub.store.subsMu.Unlock()
	if _, ok := sub.store.subs[sub]; ok {
		delete(sub.store.subs, sub)
	}
	sub.close()
}

func (sub *Subscription) close() {
	sub.once.Do(func() { close(sub.ch) })
}

func (s *Store) publish(ev Event) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for sub := range s.subs {
		select {
		case sub.ch <- ev:
		default:
			s.log.Warn("Dropping content event; subscriber buffer full", "key", ev.Key.String(), "kind", string(ev.Kind))
		}
	}
}
