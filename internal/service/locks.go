package service

import "sync"

// pairLocks serialises work on an unordered pair of users. Entries are
// dropped once no goroutine holds or waits on them.
type pairLocks struct {
	mu    sync.Mutex
	locks map[[2]string]*pairLock
}

type pairLock struct {
	sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[[2]string]*pairLock)}
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// lock blocks until the pair (a, b) is free and returns its unlock func.
func (p *pairLocks) lock(a, b string) func() {
	key := pairKey(a, b)

	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &pairLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}
