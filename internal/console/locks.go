package console

import (
	"sort"
	"sync"
)

// LockRegistry guards against more than one in-flight mutation per record.
// Entries exist only while a mutation is running.
type LockRegistry struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{held: make(map[string]struct{})}
}

// Begin marks id as locked. It returns false, changing nothing, when id is
// already locked.
func (l *LockRegistry) Begin(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[id]; ok {
		return false
	}
	l.held[id] = struct{}{}
	return true
}

// End releases id. Releasing an unlocked id is a no-op.
func (l *LockRegistry) End(id string) {
	l.mu.Lock()
	delete(l.held, id)
	l.mu.Unlock()
}

func (l *LockRegistry) Locked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[id]
	return ok
}

// Held returns the locked ids in sorted order.
func (l *LockRegistry) Held() []string {
	l.mu.Lock()
	ids := make([]string, 0, len(l.held))
	for id := range l.held {
		ids = append(ids, id)
	}
	l.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// Len reports how many records are currently locked.
func (l *LockRegistry) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
