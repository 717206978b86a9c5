package tickets

import "sync"

// DedupTracker is a set of IDs shared by every handler of the process.
type DedupTracker interface {
	// Has reports whether the ID is in the set.
	Has(id string) bool

	// Add puts the ID in the set, reporting false if it was already there.
	Add(id string) bool

	// Remove takes the ID out of the set. Removing an absent ID is a no-op.
	Remove(id string)
}

// MemoryTracker is a DedupTracker that lives for the lifetime of the process.
type MemoryTracker struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewMemoryTracker creates an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		ids: make(map[string]struct{}),
	}
}

func (t *MemoryTracker) Has(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ids[id]
	return ok
}

func (t *MemoryTracker) Add(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ids[id]; ok {
		return false
	}
	t.ids[id] = struct{}{}
	return true
}

func (t *MemoryTracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, id)
}

// Len returns the number of IDs in the set.
func (t *MemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}
