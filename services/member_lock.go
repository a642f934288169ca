package services

import (
	"imahima/domain"
	"sync"
)

// memberLocks hands out one mutex per member. Entries are reference counted
// and dropped once nobody holds or waits on them.
type memberLocks struct {
	mu    sync.Mutex
	locks map[domain.MemberID]*memberLock
}

type memberLock struct {
	sync.Mutex
	refs int
}

func newMemberLocks() *memberLocks {
	return &memberLocks{locks: make(map[domain.MemberID]*memberLock)}
}

// Lock blocks until the member's lock is held and returns its release func.
func (l *memberLocks) Lock(id domain.MemberID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &memberLock{}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
