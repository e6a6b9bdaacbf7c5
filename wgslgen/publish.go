package wgslgen

import "sync"

// Published holds the most recently compiled shader source for pickup by a
// render loop running on another goroutine. Swapping takes the write lock
// only momentarily so recompilation never waits on an in-flight draw; a
// renderer reading mid-swap sees either the old source or the new one,
// never a mix.
//
// Callers should Swap only on successful compiles so the last good shader
// survives a failed recompilation. The zero value is empty and ready to use.
type Published struct {
	mu  sync.RWMutex
	src string
	gen uint64
}

// Swap atomically replaces the published source and returns the new
// generation number.
func (p *Published) Swap(src string) (gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.src = src
	p.gen++
	return p.gen
}

// Load returns the current source and its generation. A renderer that
// remembers the generation it built its pipeline from can compare and
// rebuild only when it changes.
func (p *Published) Load() (src string, gen uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.src, p.gen
}
