package screen

import (
	"time"

	"github.com/nfrund/bookreader/internal/auth"
)

// DefaultTTL is how long an untouched login screen is kept.
const DefaultTTL = 30 * time.Minute

// Store keeps login screens by client id. It is not safe for concurrent use;
// call it from the loop that owns the screens.
type Store struct {
	screens    map[string]*Login
	controller func() *auth.Controller
	ttl        time.Duration
	now        func() time.Time
}

// NewStore creates a store whose screens get a controller from newController.
func NewStore(newController func() *auth.Controller, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		screens:    make(map[string]*Login),
		controller: newController,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the screen for id, if one is open.
func (s *Store) Get(id string) (*Login, bool) {
	l, ok := s.screens[id]
	if ok {
		l.lastSeen = s.now()
	}
	return l, ok
}

// Open returns the screen for id, creating it when needed. The second result
// reports whether the screen was created by this call.
func (s *Store) Open(id string) (*Login, bool) {
	if l, ok := s.Get(id); ok {
		return l, false
	}
	l := NewLogin(id, s.controller())
	l.lastSeen = s.now()
	s.screens[id] = l
	return l, true
}

// Close forgets the screen for id.
func (s *Store) Close(id string) {
	delete(s.screens, id)
}

// Len returns the number of open screens.
func (s *Store) Len() int {
	return len(s.screens)
}

// Sweep drops screens idle for longer than the store's TTL, keeping any with
// a sign-up still in flight. It returns how many were dropped.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	dropped := 0
	for id, l := range s.screens {
		if l.lastSeen.Before(cutoff) && !l.Busy() {
			delete(s.screens, id)
			dropped++
		}
	}
	return dropped
}
