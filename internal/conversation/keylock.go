package conversation

import "sync"

// keyLock provides per-sender mutual exclusion. Concurrent webhook deliveries
// for the same sender would otherwise race between Get and Upsert and
// duplicate a transition; locking by sender keeps unrelated senders parallel.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*senderLock
}

type senderLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*senderLock)}
}

// Lock acquires the lock for the given key, creating it on first use.
func (k *keyLock) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &senderLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the lock and drops it once no goroutine is waiting.
func (k *keyLock) Unlock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if ok {
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		l.mu.Unlock()
	}
}
