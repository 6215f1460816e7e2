package tuple

import (
	"context"
	"sync"
)

// Resolver fetches the entity instance behind a proxy.
type Resolver func(ctx context.Context, id any) (any, error)

// Proxy is a lazy reference to an entity, resolved on first access.
type Proxy interface {
	// ID returns the identifier of the referenced entity. It never
	// triggers resolution.
	ID() any
	// Resolved reports whether the target has been fetched. Not safe
	// to call concurrently with Resolve.
	Resolved() bool
	// Resolve returns the referenced entity, fetching it on first call.
	// Later calls return the cached instance without refetching, even
	// when the first fetch failed.
	Resolve(ctx context.Context) (any, error)
}

// ProxyFactory builds proxies for an entity type.
type ProxyFactory interface {
	NewProxy(id any, fn Resolver) Proxy
}

// ProxyFactoryFunc adapts a function to the ProxyFactory interface.
type ProxyFactoryFunc func(id any, fn Resolver) Proxy

// NewProxy calls f.
func (f ProxyFactoryFunc) NewProxy(id any, fn Resolver) Proxy { return f(id, fn) }

// LazyProxies returns the default proxy factory: a deferred single
// fetch through the resolver, cached for the proxy lifetime.
func LazyProxies() ProxyFactory {
	return ProxyFactoryFunc(func(id any, fn Resolver) Proxy {
		return &lazyProxy{id: id, fn: fn}
	})
}

type lazyProxy struct {
	id     any
	fn     Resolver
	once   sync.Once
	done   bool
	target any
	err    error
}

func (p *lazyProxy) ID() any { return p.id }

func (p *lazyProxy) Resolved() bool { return p.done }

func (p *lazyProxy) Resolve(ctx context.Context) (any, error) {
	p.once.Do(func() {
		p.target, p.err = p.fn(ctx, p.id)
		p.done = true
	})
	return p.target, p.err
}
