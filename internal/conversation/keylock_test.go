package conversation

import (
	"sync"
	"testing"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	locks := newKeyLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("u1")
			counter++
			locks.Unlock("u1")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyLockDifferentKeysDoNotBlock(t *testing.T) {
	locks := newKeyLock()

	locks.Lock("u1")
	done := make(chan struct{})
	go func() {
		locks.Lock("u2")
		locks.Unlock("u2")
		close(done)
	}()
	<-done
	locks.Unlock("u1")
}

func TestKeyLockReleasesEntries(t *testing.T) {
	locks := newKeyLock()

	locks.Lock("u1")
	locks.Unlock("u1")

	locks.mu.Lock()
	size := len(locks.locks)
	locks.mu.Unlock()

	if size != 0 {
		t.Errorf("lock table size = %d, want 0", size)
	}
}
