package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator hands out predictable operation IDs: "<prefix>-1",
// "<prefix>-2", ...
//
// Implements kb.IDGenerator. The same sequence of mutations with a fresh
// SequenceGenerator produces the same IDs, which keeps log output and golden
// traces stable.
//
// Thread-safety: SequenceGenerator is safe for concurrent use.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator. An empty prefix means "op".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "op"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
