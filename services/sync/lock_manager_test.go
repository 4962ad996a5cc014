package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesAccessPerLobby(t *testing.T) {
	lm := NewLockManager()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lm.Lock(42)
			counter++
			lm.Unlock(42)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestDifferentLobbiesUseDifferentLocks(t *testing.T) {
	lm := NewLockManager()

	// Holding one lobby's lock must not block another lobby
	lm.Lock(1)
	done := make(chan struct{})
	go func() {
		lm.Lock(2)
		lm.Unlock(2)
		close(done)
	}()
	<-done
	lm.Unlock(1)
}

func TestReleaseDropsLockEntry(t *testing.T) {
	lm := NewLockManager()

	lm.Lock(42)
	lm.Unlock(42)
	assert.Len(t, lm.locks, 1)

	lm.Release(42)
	assert.Empty(t, lm.locks)

	// Locking again after a release allocates a fresh mutex
	lm.Lock(42)
	lm.Unlock(42)
	assert.Len(t, lm.locks, 1)
}

func TestLockReusesSameMutex(t *testing.T) {
	lm := NewLockManager()

	lm.Lock(7)
	lm.Unlock(7)
	lm.Lock(7)
	lm.Unlock(7)

	assert.Len(t, lm.locks, 1)
}
