package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boardview/pkg/interact"
)

// view is one client's controller and its bookkeeping.
type view struct {
	mu      sync.Mutex
	id      string
	ctrl    *interact.Controller
	created time.Time
	used    time.Time // guarded by store.mu
}

// store holds the live views.
type store struct {
	mu    sync.Mutex
	views map[string]*view
	max   int
	ttl   time.Duration
	now   func() time.Time
}

func newStore(max int, ttl time.Duration) *store {
	return &store{
		views: make(map[string]*view),
		max:   max,
		ttl:   ttl,
		now:   time.Now,
	}
}

// add registers ctrl under a new id. When the store is full the least
// recently used view is evicted first.
func (s *store) add(ctrl *interact.Controller) *view {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if s.max > 0 && len(s.views) >= s.max {
		var oldest *view
		for _, v := range s.views {
			if oldest == nil || v.used.Before(oldest.used) {
				oldest = v
			}
		}
		delete(s.views, oldest.id)
	}

	v := &view{id: uuid.NewString(), ctrl: ctrl, created: now, used: now}
	s.views[v.id] = v
	return v
}

// get returns the view and marks it used. Expired views are dropped.
func (s *store) get(id string) (*view, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(v, now) {
		delete(s.views, id)
		return nil, false
	}
	v.used = now
	return v, true
}

func (s *store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.views[id]
	delete(s.views, id)
	return ok
}

// sweep drops every expired view and returns how many were dropped.
func (s *store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *store) sweepLocked(now time.Time) int {
	n := 0
	for id, v := range s.views {
		if s.expired(v, now) {
			delete(s.views, id)
			n++
		}
	}
	return n
}

func (s *store) expired(v *view, now time.Time) bool {
	return s.ttl > 0 && now.Sub(v.used) > s.ttl
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}
