package aggregate

import "sync"

// Flag is a shared boolean relation of the signed-in viewer to an entity,
// such as having liked or saved a post.
type Flag struct {
	mu    sync.Mutex
	value bool
}

// NewFlag creates a flag set to v.
func NewFlag(v bool) *Flag {
	return &Flag{value: v}
}

func (f *Flag) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set replaces the value and returns the previous one.
func (f *Flag) Set(v bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.value
	f.value = v
	return prev
}
