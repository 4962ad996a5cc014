package sync

import (
	stdsync "sync"
)

// LockManager hands out one mutex per lobby so read-check-then-write
// sequences (capacity check in JoinLobby, status transition in
// StartMatch) are serialized per lobby. Without it, concurrent joins
// can overshoot MaxPlayers and concurrent starts can create two
// matches for one lobby.
type LockManager struct {
	mu    stdsync.Mutex
	locks map[int]*stdsync.Mutex
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[int]*stdsync.Mutex)}
}

func (lm *LockManager) get(lobbyID int) *stdsync.Mutex {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	l, ok := lm.locks[lobbyID]
	if !ok {
		l = &stdsync.Mutex{}
		lm.locks[lobbyID] = l
	}
	return l
}

// Lock acquires the mutex for lobbyID, creating it on first use.
func (lm *LockManager) Lock(lobbyID int) {
	lm.get(lobbyID).Lock()
}

// Unlock releases the mutex for lobbyID.
func (lm *LockManager) Unlock(lobbyID int) {
	lm.get(lobbyID).Unlock()
}

// Release drops the mutex for lobbyID so the map does not grow for the
// process lifetime. Call only once the lobby is gone; a caller racing
// the release gets a fresh mutex, which guards nothing because there
// is no lobby state left.
func (lm *LockManager) Release(lobbyID int) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	delete(lm.locks, lobbyID)
}
