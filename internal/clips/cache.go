package clips

// Cache maps clip names to handles for one injection run. It is the only
// record of which clips a run has already generated.
type Cache struct {
	refs map[string]Ref
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{refs: make(map[string]Ref)}
}

// Get returns the handle cached under name.
func (c *Cache) Get(name string) (Ref, bool) {
	ref, ok := c.refs[name]
	return ref, ok
}

// Has reports whether name is cached.
func (c *Cache) Has(name string) bool {
	_, ok := c.refs[name]
	return ok
}

// Put caches ref under its name.
func (c *Cache) Put(ref Ref) {
	c.refs[ref.Name] = ref
}

// Len returns the number of cached clips.
func (c *Cache) Len() int {
	return len(c.refs)
}

// Ensure runs build only when the bent clip of names is not cached yet and
// caches the refs it returns. It reports whether build ran.
func (c *Cache) Ensure(names Names, build func() ([]Ref, error)) (bool, error) {
	if c.Has(names.Bent) {
		return false, nil
	}
	refs, err := build()
	if err != nil {
		return true, err
	}
	for _, ref := range refs {
		c.Put(ref)
	}
	return true, nil
}
