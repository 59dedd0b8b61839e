package di

// cacheState tracks one entry's lifecycle. Weak entries move
// Built -> Released when their strong holders are gone; lazy entries
// start Empty and never return to it.
type cacheState int

const (
	stateEmpty cacheState = iota
	stateBuilding
	stateBuilt
	stateReleased
)

type cacheEntry struct {
	state cacheState
	value any
}

// InstanceCache memoizes built values per scope. It owns its entries;
// the store never sees them.
type InstanceCache struct {
	entries map[InstanceKey]*cacheEntry
}

func NewInstanceCache() *InstanceCache {
	return &InstanceCache{entries: make(map[InstanceKey]*cacheEntry)}
}

// Materialize returns the cached value for the key or builds one,
// obeying the scope semantics. Graph scope is handled by the container,
// which owns the resolve-graph lifetime; everything container-lived
// lands here.
func (c *InstanceCache) Materialize(key InstanceKey, scope Scope, build func() (any, error)) (any, error) {
	if scope == ScopeTransient {
		return build()
	}

	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}

	switch entry.state {
	case stateBuilt:
		return entry.value, nil
	case stateBuilding:
		return nil, CyclicResolveError{Key: key}
	}

	entry.state = stateBuilding
	value, err := build()
	if err != nil {
		entry.state = stateEmpty
		return nil, err
	}
	entry.state = stateBuilt
	entry.value = value
	return value, nil
}

// Release drops a weak entry's value. The next materialize rebuilds.
// Entries in other states are untouched.
func (c *InstanceCache) Release(key InstanceKey) {
	entry, ok := c.entries[key]
	if !ok || entry.state != stateBuilt {
		return
	}
	entry.state = stateReleased
	entry.value = nil
}

// held reports whether the key currently caches a value.
func (c *InstanceCache) held(key InstanceKey) bool {
	entry, ok := c.entries[key]
	return ok && entry.state == stateBuilt
}
