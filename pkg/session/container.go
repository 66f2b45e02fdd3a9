package session

import "sync"

// Container is the single in-memory source of truth for the current session.
// Every mutation bumps a monotonic epoch; SetIfUnchanged and ResetIfUnchanged
// refuse to apply when the epoch moved, so a stale login response cannot
// resurrect a session after a forced invalidation, and concurrent forced
// invalidations take effect exactly once.
type Container struct {
	mu    sync.Mutex
	cur   Session
	epoch uint64
	subs  []func(Session)
}

func NewContainer() *Container {
	return &Container{cur: Anonymous()}
}

// Current returns the session as of now.
func (c *Container) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Snapshot returns the session together with the epoch it was read at,
// for a later SetIfUnchanged/ResetIfUnchanged.
func (c *Container) Snapshot() (Session, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(), c.epoch
}

// Set replaces the whole session unconditionally.
func (c *Container) Set(s Session) {
	c.mu.Lock()
	c.applyLocked(s)
	subs, cur := c.subs, c.snapshotLocked()
	c.mu.Unlock()
	notify(subs, cur)
}

// SetIfUnchanged replaces the session only if no mutation happened since the
// given epoch was observed. Reports whether the set was applied.
func (c *Container) SetIfUnchanged(s Session, epoch uint64) bool {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return false
	}
	c.applyLocked(s)
	subs, cur := c.subs, c.snapshotLocked()
	c.mu.Unlock()
	notify(subs, cur)
	return true
}

// Reset restores the unauthenticated default unconditionally.
func (c *Container) Reset() {
	c.Set(Anonymous())
}

// ResetIfUnchanged restores the unauthenticated default only if no mutation
// happened since the given epoch was observed.
func (c *Container) ResetIfUnchanged(epoch uint64) bool {
	return c.SetIfUnchanged(Anonymous(), epoch)
}

// Subscribe registers a callback invoked synchronously after every mutation.
// The callback must not mutate the container.
func (c *Container) Subscribe(fn func(Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Container) applyLocked(s Session) {
	s.Roles = cloneRoles(s.Roles)
	c.cur = s
	c.epoch++
}

func (c *Container) snapshotLocked() Session {
	s := c.cur
	s.Roles = cloneRoles(s.Roles)
	return s
}

func notify(subs []func(Session), s Session) {
	for _, fn := range subs {
		fn(s)
	}
}
