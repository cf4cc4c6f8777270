package ucum

import "sync"

// formCache memoizes canonical forms by expression text.
// Entries are evicted in insertion order once size is reached.
type formCache struct {
	mu    sync.Mutex
	size  int
	forms map[string]*CanonicalForm
	order []string
	next  int // position in order of the oldest entry
}

func newFormCache(size int) *formCache {
	return &formCache{
		size:  size,
		forms: make(map[string]*CanonicalForm, size),
		order: make([]string, 0, size),
	}
}

func (c *formCache) get(expr string) (*CanonicalForm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.forms[expr]
	return f, ok
}

func (c *formCache) put(expr string, f *CanonicalForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.forms[expr]; ok {
		return
	}
	if len(c.order) < c.size {
		c.order = append(c.order, expr)
	} else {
		delete(c.forms, c.order[c.next])
		c.order[c.next] = expr
		c.next = (c.next + 1) % c.size
	}
	c.forms[expr] = f
}

func (c *formCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.forms)
}
