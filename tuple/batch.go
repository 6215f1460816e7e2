package tuple

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is reported for ids absent from a batch fetch result.
var ErrNotFound = errors.New("tuple: entity not found")

// BatchFunc fetches a batch of entities by their ids. The result order
// is up to the implementation; use OrderByKeys to align it with the
// requested ids.
type BatchFunc func(ctx context.Context, ids []any) ([]any, []error)

// KeyFunc extracts a key from an entity.
type KeyFunc[K comparable, V any] func(V) K

// OrderByKeys reorders fetched entities to match the order of the
// requested keys. Keys with no matching entity yield a zero value and
// ErrNotFound at the same position.
func OrderByKeys[K comparable, V any](keys []K, values []V, keyFn KeyFunc[K, V]) ([]V, []error) {
	lookup := make(map[K]V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, key := range keys {
		if v, ok := lookup[key]; ok {
			result[i] = v
		} else {
			errs[i] = ErrNotFound
		}
	}
	return result, errs
}

// GroupByKey groups entities by a key function. Useful for one-to-many
// relations where several entities share the same foreign key.
func GroupByKey[K comparable, V any](values []V, keyFn KeyFunc[K, V]) map[K][]V {
	result := make(map[K][]V)
	for _, v := range values {
		key := keyFn(v)
		result[key] = append(result[key], v)
	}
	return result
}

// Batch collects proxies of one entity type and resolves all pending
// ones with a single fetch on first access.
type Batch struct {
	fetch   BatchFunc
	mu      sync.Mutex
	pending []*batchProxy
}

// NewBatch returns a batch resolving proxies through fetch.
func NewBatch(fetch BatchFunc) *Batch {
	return &Batch{fetch: fetch}
}

// Factory returns a proxy factory registering its proxies with the
// batch. The per-proxy resolver is ignored; the batch fetch is used
// instead.
func (b *Batch) Factory() ProxyFactory {
	return ProxyFactoryFunc(func(id any, _ Resolver) Proxy {
		p := &batchProxy{id: id, batch: b}
		b.mu.Lock()
		b.pending = append(b.pending, p)
		b.mu.Unlock()
		return p
	})
}

// flush fetches every pending proxy in registration order and
// distributes results and errors. Proxies created during the fetch are
// picked up by the next flush.
func (b *Batch) flush(ctx context.Context) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	if len(pending) == 0 {
		return
	}
	ids := make([]any, len(pending))
	for i, p := range pending {
		ids[i] = p.id
	}
	values, errs := b.fetch(ctx, ids)
	for i, p := range pending {
		switch {
		case i < len(errs) && errs[i] != nil:
			p.err = errs[i]
		case i < len(values):
			p.target = values[i]
		default:
			p.err = ErrNotFound
		}
		p.done = true
	}
}

type batchProxy struct {
	id     any
	batch  *Batch
	done   bool
	target any
	err    error
}

func (p *batchProxy) ID() any { return p.id }

func (p *batchProxy) Resolved() bool { return p.done }

func (p *batchProxy) Resolve(ctx context.Context) (any, error) {
	if !p.done {
		p.batch.flush(ctx)
	}
	return p.target, p.err
}
