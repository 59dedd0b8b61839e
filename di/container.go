package di

// Resolver is a non-owning handle to a container, passed into builder
// closures so they can resolve their own dependencies.
type Resolver interface {
	Resolve(key InstanceKey, parameters ...any) (any, error)
}

// Container ties a BuilderStore and an InstanceCache together behind the
// resolve protocol. Register is expected at construction time; Resolve
// reads the store and mutates only the cache.
type Container struct {
	store *BuilderStore
	cache *InstanceCache

	// graph-scope bookkeeping: instances shared for the duration of the
	// outermost active resolve on this container.
	graphDepth int
	graph      map[InstanceKey]any
	building   map[InstanceKey]bool
}

// NewContainer creates a container, optionally chained onto a parent so
// lookups fall through to the ancestor's registrations.
func NewContainer(parent *Container) *Container {
	var parentStore *BuilderStore
	if parent != nil {
		parentStore = parent.store
	}
	return &Container{
		store:    NewBuilderStore(parentStore),
		cache:    NewInstanceCache(),
		graph:    make(map[InstanceKey]any),
		building: make(map[InstanceKey]bool),
	}
}

// Register stores a builder under the key.
func (c *Container) Register(key InstanceKey, scope Scope, builder Builder) error {
	if builder == nil {
		return NilBuilderError{Key: key}
	}
	c.store.Set(key, scope, builder)
	return nil
}

// Resolve materializes a value for the key. Nested resolves from inside
// builders share the same resolve graph; exiting the outermost call
// releases every graph-scoped value before returning.
func (c *Container) Resolve(key InstanceKey, parameters ...any) (any, error) {
	c.graphDepth++
	defer func() {
		c.graphDepth--
		if c.graphDepth == 0 {
			c.graph = make(map[InstanceKey]any)
		}
	}()

	scope, builder, ok := c.store.Get(key)
	if !ok {
		return nil, NotRegisteredError{Key: key}
	}

	// Argument values join the cache identity, so resolves with
	// different parameters never share an instance.
	id := key.withParameterValues(parameters)

	resolver := containerResolver{container: c}
	build := func() (any, error) {
		if c.building[id] {
			return nil, CyclicResolveError{Key: key}
		}
		c.building[id] = true
		defer delete(c.building, id)
		return builder(resolver, parameters...), nil
	}

	if scope == ScopeGraph {
		if value, ok := c.graph[id]; ok {
			return value, nil
		}
		value, err := build()
		if err != nil {
			return nil, err
		}
		c.graph[id] = value
		return value, nil
	}

	return c.cache.Materialize(id, scope, build)
}

// ReleaseWeak drops the container's hold on a weak-scoped value. The
// generated holder calls this from its deinitializer; a later resolve
// rebuilds.
func (c *Container) ReleaseWeak(key InstanceKey) {
	c.cache.Release(key)
}

// Holds reports whether a value is currently cached for the key. Graph
// entries only exist while a resolve is active.
func (c *Container) Holds(key InstanceKey) bool {
	if _, ok := c.graph[key]; ok {
		return true
	}
	return c.cache.held(key)
}

// containerResolver is the non-owning handle handed to builders. It is a
// plain value wrapping the container pointer; builders hold it only for
// the duration of their call, so the container's stored builders never
// close over their own cache.
type containerResolver struct {
	container *Container
}

func (r containerResolver) Resolve(key InstanceKey, parameters ...any) (any, error) {
	return r.container.Resolve(key, parameters...)
}
