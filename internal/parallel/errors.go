// Package parallel holds the small concurrency primitives shared by the
// integration strategies: a first-error collector and a persistent worker
// pool.
package parallel

import "sync"

// ErrorCollector records the first non-nil error reported by any of a set of
// goroutines. The zero value is ready to use.
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError stores err if it is non-nil and no error has been stored yet.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Err returns the first error recorded, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
