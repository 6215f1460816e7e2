// Package tuple controls how entity instances are created and accessed.
// Each entity type binds a Tuplizer: an instantiator producing new
// instances, an accessor reading and writing fields by name, and a
// proxy factory building lazy references that resolve on first access.
//
// Tuplizers are registered during metadata building. The registry is
// safe for concurrent reads once binding is complete.
package tuple

import (
	"sort"
	"sync"

	"github.com/strataorm/strata"
)

// Instantiator creates new instances of an entity type.
type Instantiator interface {
	Instantiate() any
}

// InstantiatorFunc adapts a function to the Instantiator interface.
type InstantiatorFunc func() any

// Instantiate calls f.
func (f InstantiatorFunc) Instantiate() any { return f() }

// Getter reads a named field from an entity instance.
type Getter interface {
	Get(entity any, field string) (any, error)
}

// Setter writes a named field of an entity instance.
type Setter interface {
	Set(entity any, field string, value any) error
}

// Accessor combines field reads and writes.
type Accessor interface {
	Getter
	Setter
}

// Tuplizer bundles instantiation, field access and proxying for one
// entity type.
type Tuplizer struct {
	name    string
	inst    Instantiator
	access  Accessor
	proxies ProxyFactory
}

// Option configures a Tuplizer.
type Option func(*Tuplizer)

// WithInstantiator overrides the default instantiator.
func WithInstantiator(inst Instantiator) Option {
	return func(t *Tuplizer) { t.inst = inst }
}

// WithAccessor overrides the default field accessor.
func WithAccessor(access Accessor) Option {
	return func(t *Tuplizer) { t.access = access }
}

// WithProxyFactory overrides the default proxy factory.
func WithProxyFactory(proxies ProxyFactory) Option {
	return func(t *Tuplizer) { t.proxies = proxies }
}

// New returns a tuplizer for the given entity type. A struct value or
// pointer prototype binds the reflection-based instantiator and
// accessor. A nil prototype binds the dynamic map-backed entity.
func New(name string, prototype any, opts ...Option) (*Tuplizer, error) {
	if name == "" {
		return nil, strata.NewMappingError("tuplizer requires an entity name")
	}
	t := &Tuplizer{name: name, proxies: LazyProxies()}
	switch prototype {
	case nil:
		t.inst = InstantiatorFunc(func() any { return Dynamic{} })
		t.access = dynamicAccessor{}
	default:
		ra, err := newReflectAccessor(prototype)
		if err != nil {
			return nil, err
		}
		t.inst = ra
		t.access = ra
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Name returns the entity name the tuplizer is bound to.
func (t *Tuplizer) Name() string { return t.name }

// Instantiate creates a new entity instance.
func (t *Tuplizer) Instantiate() any { return t.inst.Instantiate() }

// Get reads the named field of the given entity instance.
func (t *Tuplizer) Get(entity any, field string) (any, error) {
	return t.access.Get(entity, field)
}

// Set writes the named field of the given entity instance.
func (t *Tuplizer) Set(entity any, field string, value any) error {
	return t.access.Set(entity, field, value)
}

// Proxy returns a lazy reference to the entity with the given id,
// resolved by fn on first access.
func (t *Tuplizer) Proxy(id any, fn Resolver) Proxy {
	return t.proxies.NewProxy(id, fn)
}

// Registry maps entity names to their tuplizers.
type Registry struct {
	mu        sync.RWMutex
	tuplizers map[string]*Tuplizer
}

// NewRegistry returns an empty tuplizer registry.
func NewRegistry() *Registry {
	return &Registry{tuplizers: make(map[string]*Tuplizer)}
}

// Register binds a tuplizer to its entity name. Registering the same
// name twice is a mapping error.
func (r *Registry) Register(t *Tuplizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tuplizers[t.name]; ok {
		return strata.NewMappingErrorf("tuplizer for entity %q already registered", t.name)
	}
	r.tuplizers[t.name] = t
	return nil
}

// Tuplizer returns the tuplizer of the named entity.
func (r *Registry) Tuplizer(name string) (*Tuplizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tuplizers[name]
	if !ok {
		return nil, strata.NewUnregisteredError(name)
	}
	return t, nil
}

// Instantiate creates a new instance of the named entity.
func (r *Registry) Instantiate(name string) (any, error) {
	t, err := r.Tuplizer(name)
	if err != nil {
		return nil, err
	}
	return t.Instantiate(), nil
}

// Names returns the registered entity names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tuplizers))
	for name := range r.tuplizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
