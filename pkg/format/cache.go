package format

import "sync"

// Cache holds compiled templates keyed by their raw text
type Cache struct {
	templates map[string]*Template
	mu        sync.RWMutex
}

// NewCache creates an empty template cache
func NewCache() *Cache {
	return &Cache{
		templates: make(map[string]*Template),
	}
}

// Get returns the compiled template for raw, compiling it on first use
func (c *Cache) Get(raw string) *Template {
	// Check cache first (read lock)
	c.mu.RLock()
	if t, ok := c.templates[raw]; ok {
		c.mu.RUnlock()
		return t
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Check again in case another goroutine compiled it
	if t, ok := c.templates[raw]; ok {
		return t
	}

	t := Compile(raw)
	c.templates[raw] = t
	return t
}

// Len returns the number of cached templates
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Clear drops every cached template
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = make(map[string]*Template)
}
