// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package locks

import "sync"

// NamedMutex provides mutexes keyed by name. Entries are reference counted
// and removed from the table once the last holder releases, so the table
// never grows beyond the set of names currently contended.
type NamedMutex struct {
	mu      sync.Mutex
	entries map[string]*namedMutexEntry
}

type namedMutexEntry struct {
	m    sync.Mutex
	refs int
}

func NewNamedMutex() *NamedMutex {
	return &NamedMutex{
		entries: make(map[string]*namedMutexEntry),
	}
}

// Lock acquires the mutex for the given name, creating it if needed.
func (n *NamedMutex) Lock(name string) {
	n.mu.Lock()
	entry, ok := n.entries[name]
	if !ok {
		entry = &namedMutexEntry{}
		n.entries[name] = entry
	}
	entry.refs++
	n.mu.Unlock()

	entry.m.Lock()
}

// Unlock releases the mutex for the given name. Unlocking a name that is not
// held is a no-op.
func (n *NamedMutex) Unlock(name string) {
	n.mu.Lock()
	entry, ok := n.entries[name]
	if !ok {
		n.mu.Unlock()
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(n.entries, name)
	}
	n.mu.Unlock()

	entry.m.Unlock()
}

// Locked acquires the mutex for the given name and returns an idempotent
// release function, intended for use with defer.
func (n *NamedMutex) Locked(name string) func() {
	n.Lock(name)
	var once sync.Once
	return func() {
		once.Do(func() { n.Unlock(name) })
	}
}
