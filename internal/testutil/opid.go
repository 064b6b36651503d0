package testutil

import (
	"fmt"
	"sync"
)

// SequentialOpIDs generates "op-1", "op-2", ... so log fields and traces are
// deterministic.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialOpIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialOpIDs creates a generator. An empty prefix defaults to "op".
func NewSequentialOpIDs(prefix string) *SequentialOpIDs {
	if prefix == "" {
		prefix = "op"
	}
	return &SequentialOpIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialOpIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequentialOpIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
