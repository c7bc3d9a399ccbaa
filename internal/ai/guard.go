package ai

import "sync"

// Guard orders overlapping requests for the same key. Each Begin supersedes
// every earlier ticket for that key; a superseded result must not replace a
// newer one.
type Guard struct {
	mu   sync.Mutex
	gens map[string]uint64
}

// NewGuard creates an empty Guard.
func NewGuard() *Guard {
	return &Guard{gens: make(map[string]uint64)}
}

// Ticket identifies one in-flight request.
type Ticket struct {
	guard *Guard
	key   string
	gen   uint64
}

// Begin starts a request for key.
func (g *Guard) Begin(key string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[key]++
	return Ticket{guard: g, key: key, gen: g.gens[key]}
}

// Current reports whether no later request for the same key has begun.
func (t Ticket) Current() bool {
	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()
	return t.guard.gens[t.key] == t.gen
}

// Commit runs fn only if t is still current, holding the guard so that no
// newer request can begin in between. It reports whether fn ran.
func (t Ticket) Commit(fn func()) bool {
	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()
	if t.guard.gens[t.key] != t.gen {
		return false
	}
	fn()
	return true
}
