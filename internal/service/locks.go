package service

import "sync"

// KeyedLock provides non-blocking per-key mutual exclusion. A failed
// acquisition means another operation on the same key is in flight; the
// caller reports a concurrency conflict instead of queueing.
type KeyedLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{held: make(map[string]struct{})}
}

// TryAcquire attempts to take the lock for key. On success it returns a
// release func (call exactly once, typically deferred) and true.
func (l *KeyedLock) TryAcquire(key string) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[key]; taken {
		return nil, false
	}
	l.held[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}
	return release, true
}
