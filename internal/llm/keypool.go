package llm

import (
	"strings"
	"sync"
)

// KeyPool is an ordered set of API credentials with a pointer to the current one.
// Rotation wraps around, so N rotations visit every key exactly once.
type KeyPool struct {
	mu    sync.Mutex
	keys  []string
	index int
}

// NewKeyPool creates a pool from keys, dropping blank entries.
func NewKeyPool(keys []string) *KeyPool {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return &KeyPool{keys: cleaned}
}

// ParseKeyList splits a comma-separated credential list.
func ParseKeyList(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Current returns the current key and its index, or false when the pool is empty.
func (p *KeyPool) Current() (string, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.keys) == 0 {
		return "", 0, false
	}
	return p.keys[p.index], p.index, true
}

// Rotate advances to the next key, wrapping around. It is a no-op on an empty pool.
func (p *KeyPool) Rotate() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.keys) == 0 {
		return 0
	}
	p.index = (p.index + 1) % len(p.keys)
	return p.index
}

// Index returns the position of the current key.
func (p *KeyPool) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Len returns the number of configured keys.
func (p *KeyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Attempts is the number of tries an operation gets: max(Len, 1).
func (p *KeyPool) Attempts() int {
	if n := p.Len(); n > 1 {
		return n
	}
	return 1
}
