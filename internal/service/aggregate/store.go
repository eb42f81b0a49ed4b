package aggregate

import (
	"sync"

	"github.com/google/uuid"
)

// Counter names kept in a Store.
const (
	LikeCount     = "like_count"
	FollowerCount = "follower_count"
	PostCount     = "post_count"
	UnreadCount   = "unread_count"
)

// Flag names kept in a Store.
const (
	Liked = "liked"
	Saved = "saved"
)

// Key addresses one counter of one entity.
type Key struct {
	EntityID uuid.UUID
	Name     string
}

// Store is the session-scoped home of shared counters, viewer flags and poll
// tallies. Views that show the same entity read and write the same instances.
type Store struct {
	mu       sync.Mutex
	counters map[Key]*Counter
	flags    map[Key]*Flag
	tallies  map[uuid.UUID]*Tally
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		counters: make(map[Key]*Counter),
		flags:    make(map[Key]*Flag),
		tallies:  make(map[uuid.UUID]*Tally),
	}
}

// Counter returns the counter for key, creating it at zero on first use.
func (s *Store) Counter(key Key) *Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok {
		c = NewCounter(0)
		s.counters[key] = c
	}
	return c
}

// Seed returns the counter for key, initializing it to v if it did not exist.
// An existing counter keeps its value so in-flight local edits survive a reload.
func (s *Store) Seed(key Key, v int) *Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok {
		c = NewCounter(v)
		s.counters[key] = c
	}
	return c
}

// SeedFlag returns the flag for key, initializing it to v if it did not exist.
func (s *Store) SeedFlag(key Key, v bool) *Flag {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flags[key]
	if !ok {
		f = NewFlag(v)
		s.flags[key] = f
	}
	return f
}

// Tally returns the tally of a poll, creating an empty one on first use.
func (s *Store) Tally(postID uuid.UUID) *Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tallies[postID]
	if !ok {
		t = NewTally()
		s.tallies[postID] = t
	}
	return t
}

// Forget drops every counter, flag and tally of an entity.
func (s *Store) Forget(entityID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.counters {
		if k.EntityID == entityID {
			delete(s.counters, k)
		}
	}
	for k := range s.flags {
		if k.EntityID == entityID {
			delete(s.flags, k)
		}
	}
	delete(s.tallies, entityID)
}

// ForgetViewer drops everything that depends on who is signed in: the
// viewer's own counters, every viewer flag and every tally, since tallies
// split the viewer's vote from everyone else's.
func (s *Store) ForgetViewer(viewerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.counters {
		if k.EntityID == viewerID {
			delete(s.counters, k)
		}
	}
	clear(s.flags)
	clear(s.tallies)
}
