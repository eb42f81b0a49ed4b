package realtime

import (
	"context"
	"sync"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// MemorySource is an in-process change-event source. It delivers published
// events synchronously to every matching subscription.
type MemorySource struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]memorySub
}

type memorySub struct {
	filter domain.ChangeFilter
	sink   domain.ChangeSink
}

// NewMemorySource creates an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{subs: make(map[int]memorySub)}
}

// Subscribe registers sink for events matching filter.
func (m *MemorySource) Subscribe(_ context.Context, filter domain.ChangeFilter, sink domain.ChangeSink) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = memorySub{filter: filter, sink: sink}
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}, nil
}

// Publish delivers ev to every matching subscription.
func (m *MemorySource) Publish(ev domain.ChangeEvent) {
	for _, s := range m.snapshot() {
		if s.filter.Matches(ev) {
			s.sink.Event(ev)
		}
	}
}

// Reconnect signals a reconnect to every subscription.
func (m *MemorySource) Reconnect() {
	for _, s := range m.snapshot() {
		s.sink.Reconnected()
	}
}

// Subscribers returns the number of live subscriptions.
func (m *MemorySource) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *MemorySource) snapshot() []memorySub {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := make([]memorySub, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	return subs
}
