package board

import (
	"sync"
)

// inflightGuard is the set of reaction keys currently being submitted.
type inflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{keys: make(map[string]struct{})}
}

// tryAcquire inserts key unless it is already held or eligible() says
// no. The eligibility check runs under the same lock as the insert.
func (g *inflightGuard) tryAcquire(key string, eligible func() bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.keys[key]; held {
		return false
	}
	if !eligible() {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}
