// Package resource binds the request cache to the primary backend's record
// endpoints: one module per entity, each with a degraded list read and its
// own write operations.
package resource

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/optimistic"
	"github.com/matheus3301/padesk/internal/policy"
	"github.com/matheus3301/padesk/internal/reqcache"
	"github.com/matheus3301/padesk/internal/wire"
	"go.uber.org/zap"
)

// Client is the subset of apiclient.Client used by modules.
type Client interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
	Patch(ctx context.Context, path string, body any) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
}

// Deps are the collaborators shared by every module.
type Deps struct {
	// Ctx bounds the lifetime of the modules' caches.
	Ctx    context.Context
	Client Client
	Policy *policy.Policy
	Logger *zap.Logger
}

// ListParams are the query options accepted by list endpoints.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Status  string
	Sort    string
	Filters map[string]string
}

// Query encodes p, omitting zero values.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// Module is the generic read side of a resource. Writes never touch the cache;
// callers refetch or go through Optimistic.
type Module[E collection.Entity] struct {
	name   string
	path   string
	client Client
	policy *policy.Policy
	logger *zap.Logger
	cache  *reqcache.Cache[collection.Collection[E]]
	bridge *optimistic.Bridge[E]
}

func newModule[E collection.Entity](name, path string, d Deps) *Module[E] {
	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.OrNop(d.Logger).With(zap.String("resource", name))
	cache := reqcache.New[collection.Collection[E]](ctx, reqcache.WithName(name), reqcache.WithLogger(logger))
	return &Module[E]{
		name:   name,
		path:   path,
		client: d.Client,
		policy: d.Policy,
		logger: logger,
		cache:  cache,
		bridge: optimistic.NewBridge(cache),
	}
}

// Name returns the resource name used in logs and metrics.
func (m *Module[E]) Name() string { return m.name }

// Cache returns the module's request cache.
func (m *Module[E]) Cache() *reqcache.Cache[collection.Collection[E]] { return m.cache }

// Optimistic returns the bridge reconciling local mutations into the cache.
func (m *Module[E]) Optimistic() *optimistic.Bridge[E] { return m.bridge }

// Close retires the module's cache.
func (m *Module[E]) Close() { m.cache.Close() }

// List fetches one page through the cache. An authorization denial yields an
// empty collection.
func (m *Module[E]) List(ctx context.Context, params ListParams) (collection.Collection[E], error) {
	return m.cache.Request(ctx, func(ctx context.Context) (collection.Collection[E], error) {
		return policy.ReadList(ctx, m.policy, m.name, func(ctx context.Context) (collection.Collection[E], error) {
			body, err := m.client.Get(ctx, m.path, params.Query())
			if err != nil {
				return collection.Collection[E]{}, err
			}
			c, err := collection.Decode[E](body)
			if err != nil {
				return collection.Collection[E]{}, fmt.Errorf("decode %s: %w", m.name, err)
			}
			return c, nil
		})
	})
}

func (m *Module[E]) create(ctx context.Context, input any) (E, error) {
	body, err := m.client.Post(ctx, m.path, input)
	if err != nil {
		return zeroOf[E](), err
	}
	return decodeEntity[E](m.name, body)
}

func (m *Module[E]) update(ctx context.Context, id string, input any) (E, error) {
	body, err := m.client.Patch(ctx, m.itemPath(id), input)
	if err != nil {
		return zeroOf[E](), err
	}
	return decodeEntity[E](m.name, body)
}

func (m *Module[E]) remove(ctx context.Context, id string) error {
	_, err := m.client.Delete(ctx, m.itemPath(id))
	return err
}

func (m *Module[E]) setStatus(ctx context.Context, id, status string) (E, error) {
	body, err := m.client.Patch(ctx, m.itemPath(id)+"/status", map[string]string{"status": status})
	if err != nil {
		return zeroOf[E](), err
	}
	return decodeEntity[E](m.name, body)
}

func (m *Module[E]) itemPath(id string) string {
	return m.path + "/" + url.PathEscape(id)
}

func decodeEntity[E any](name string, body []byte) (E, error) {
	e, err := wire.Object[E](body)
	if err != nil {
		return e, fmt.Errorf("decode %s: %w", name, err)
	}
	return e, nil
}

func zeroOf[E any]() E {
	var e E
	return e
}
