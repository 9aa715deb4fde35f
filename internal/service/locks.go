package service

import "sync"

// cartLocks serializes mutations per cart so a fetch-decide-write
// sequence is never interleaved with another one for the same cart
// within this process. Cross-process writers are handled by the
// store's version check instead.
type cartLocks struct {
	locks sync.Map // cart id -> *sync.Mutex
}

func (l *cartLocks) lock(cartID string) func() {
	v, _ := l.locks.LoadOrStore(cartID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
