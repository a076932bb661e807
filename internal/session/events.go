package session

import (
	"slices"

	"github.com/wolfeidau/adminconsole/internal/models"
)

// Reason says why the session changed.
type Reason string

const (
	ReasonLoading  Reason = "loading"
	ReasonLogin    Reason = "login"
	ReasonLogout   Reason = "logout"
	ReasonExpired  Reason = "expired"
	ReasonRestored Reason = "restored"
	ReasonProfile  Reason = "profile"
	ReasonFailed   Reason = "failed" // login or profile update failed; the prior session is back
)

// Event is delivered to subscribers after the session changes.
type Event struct {
	Reason  Reason
	Session models.Session
}

// Subscribe registers fn for session-changed events and returns a function
// that removes it. Handlers run synchronously on the goroutine performing the
// change, in order, and must not call Login, Logout, UpdateProfile,
// InitializeFromStorage or Expire.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) emit(reason Reason, sess models.Session) {
	s.subMu.RLock()
	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	// deliver in subscription order
	slices.Sort(ids)
	handlers := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.subscribers[id])
	}
	s.subMu.RUnlock()

	for _, fn := range handlers {
		fn(Event{Reason: reason, Session: sess.Clone()})
	}
}
