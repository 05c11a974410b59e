package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/encodeous/thaum/perf"
	"github.com/encodeous/thaum/state"
	"github.com/jellydator/ttlcache/v3"
)

// SourceFunc produces the catalog an Engine builds its route graph from
type SourceFunc func() (*state.Catalog, error)

type pathKey = state.Pair[state.EntityId, state.EntityId]

// Engine builds a route graph on a background goroutine and answers queries against it.
//
// Entity lookups only need the loaded catalog and become available before path
// queries, which wait for relaxation to finish. Blocking methods wait until the
// capability they need is ready; the Try variants return state.ErrNotReady instead.
type Engine struct {
	*state.Env
	ctx    context.Context
	cancel context.CancelCauseFunc

	catalog      atomic.Pointer[state.Catalog]
	graph        atomic.Pointer[RouteGraph]
	catalogReady chan struct{}
	routesReady  chan struct{}
	buildErr     error // written before the gates are closed

	cache *ttlcache.Cache[pathKey, Path]
	Trace *Trace

	done      chan struct{}
	closeOnce sync.Once
}

// Start begins building a route graph from load. The engine must be closed with Close.
func Start(env *state.Env, load SourceFunc) *Engine {
	e := newEngine(env)
	go e.build(load)
	return e
}

// StartTraced is Start with a trace subscription registered before the build begins,
// so the subscriber does not miss the first events. The subscriber must keep draining
// the channel until it unsubscribes.
func StartTraced(env *state.Env, load SourceFunc, buf int) (*Engine, <-chan any, func()) {
	e := newEngine(env)
	events, unsubscribe := e.Trace.Subscribe(buf)
	go e.build(load)
	return e, events, unsubscribe
}

func newEngine(env *state.Env) *Engine {
	ctx, cancel := context.WithCancelCause(env.Context)
	e := &Engine{
		Env:          env,
		ctx:          ctx,
		cancel:       cancel,
		catalogReady: make(chan struct{}),
		routesReady:  make(chan struct{}),
		Trace:        NewTrace(),
		done:         make(chan struct{}),
	}
	if ttl := env.CacheTTL(); ttl > 0 {
		e.cache = ttlcache.New[pathKey, Path](
			ttlcache.WithTTL[pathKey, Path](ttl),
			ttlcache.WithCapacity[pathKey, Path](env.PathCacheSize),
			ttlcache.WithDisableTouchOnHit[pathKey, Path](),
		)
	}
	return e
}

func (e *Engine) build(load SourceFunc) {
	defer close(e.done)
	catalogOpen, routesOpen := true, true
	defer func() {
		if catalogOpen {
			close(e.catalogReady)
		}
		if routesOpen {
			close(e.routesReady)
		}
	}()

	start := time.Now()
	e.Env.Log.Info("loading entities")
	c, err := load()
	if err != nil {
		e.Env.Log.Error("failed to load entities", "error", err)
		e.buildErr = err
		return
	}
	e.catalog.Store(c)
	close(e.catalogReady)
	catalogOpen = false
	e.Env.Log.Info("entities loaded", "entities", c.Len(), "links", len(c.Edges()), "elapsed", time.Since(start))

	g := NewRouteGraph(c)
	err = g.Construct(e.ctx, e.RelaxRounds, e)
	if err != nil {
		e.Env.Log.Error("failed to construct route graph", "error", err)
		e.buildErr = err
		return
	}
	e.graph.Store(g)
	close(e.routesReady)
	routesOpen = false

	elapsed := time.Since(start)
	perf.BuildLatency.Add(float64(elapsed.Milliseconds()))
	perf.RelaxRounds.Add(float64(g.Rounds()))
	e.Env.Log.Info("route graph ready", "rounds", g.Rounds(), "converged", g.Converged(), "complete", g.IsComplete(), "elapsed", elapsed)
}

// Log implements Router
func (e *Engine) Log(event RouterEvent, desc string, args ...any) {
	if event.IsWarning() {
		e.Env.Log.Warn(desc, args...)
	} else if event == RoundComplete || event == Converged {
		e.Env.Log.Debug(desc, args...)
	}
	if event == RouteAdded || event == RouteImproved {
		perf.RouteChanges.Add(1)
	}
	e.Trace.Publish(TraceEvent{Event: event, Desc: desc, Args: args})
}

func wait(ctx context.Context, gate <-chan struct{}) error {
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isOpen(gate <-chan struct{}) bool {
	select {
	case <-gate:
		return false
	default:
		return true
	}
}

// Catalog waits for the entities to be loaded
func (e *Engine) Catalog(ctx context.Context) (*state.Catalog, error) {
	if err := wait(ctx, e.catalogReady); err != nil {
		return nil, err
	}
	return e.loadedCatalog()
}

func (e *Engine) loadedCatalog() (*state.Catalog, error) {
	c := e.catalog.Load()
	if c == nil {
		return nil, e.buildErr
	}
	return c, nil
}

// Graph waits for the route graph to be constructed
func (e *Engine) Graph(ctx context.Context) (*RouteGraph, error) {
	if err := wait(ctx, e.routesReady); err != nil {
		return nil, err
	}
	return e.builtGraph()
}

func (e *Engine) builtGraph() (*RouteGraph, error) {
	g := e.graph.Load()
	if g == nil {
		return nil, e.buildErr
	}
	return g, nil
}

// Wait blocks until the build has finished, returning the build error if any
func (e *Engine) Wait(ctx context.Context) error {
	_, err := e.Graph(ctx)
	return err
}

func (e *Engine) CatalogReady() bool {
	return !isOpen(e.catalogReady) && e.catalog.Load() != nil
}

func (e *Engine) RoutesReady() bool {
	return !isOpen(e.routesReady) && e.graph.Load() != nil
}

func (e *Engine) FindEntity(ctx context.Context, nameOrCode string) (*state.Entity, error) {
	c, err := e.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Find(nameOrCode)
}

func (e *Engine) TryFindEntity(nameOrCode string) (*state.Entity, error) {
	if isOpen(e.catalogReady) {
		return nil, state.ErrNotReady
	}
	c, err := e.loadedCatalog()
	if err != nil {
		return nil, err
	}
	return c.Find(nameOrCode)
}

func (e *Engine) ShortestPath(ctx context.Context, start, goal string) (Path, error) {
	g, err := e.Graph(ctx)
	if err != nil {
		return Path{}, err
	}
	return e.shortestPath(g, start, goal)
}

func (e *Engine) TryShortestPath(start, goal string) (Path, error) {
	if isOpen(e.routesReady) {
		return Path{}, state.ErrNotReady
	}
	g, err := e.builtGraph()
	if err != nil {
		return Path{}, err
	}
	return e.shortestPath(g, start, goal)
}

// ExactPath answers a path query with the brute force ReferencePath, limited to MaxHops
// hops. It only needs the catalog and bypasses the route graph and the path cache.
func (e *Engine) ExactPath(ctx context.Context, start, goal string) (Path, error) {
	c, err := e.Catalog(ctx)
	if err != nil {
		return Path{}, err
	}
	s, err := c.Find(start)
	if err != nil {
		return Path{}, err
	}
	t, err := c.Find(goal)
	if err != nil {
		return Path{}, err
	}
	ids, cost, ok := ReferencePath(c, s.Id, t.Id, e.MaxHops)
	if !ok {
		return Path{}, &state.RouteNotFoundError{At: s.Name, Goal: t.Name}
	}
	p := Path{Entities: make([]*state.Entity, 0, len(ids)), Cost: cost}
	for _, id := range ids {
		p.Entities = append(p.Entities, c.Entities[id])
	}
	return p, nil
}

func (e *Engine) shortestPath(g *RouteGraph, start, goal string) (Path, error) {
	begin := time.Now()
	defer func() {
		perf.QueriesPerSecond.Add(1)
		perf.QueryLatency.Add(float64(time.Since(begin).Microseconds()))
	}()

	s, err := g.Catalog.Find(start)
	if err != nil {
		return Path{}, err
	}
	t, err := g.Catalog.Find(goal)
	if err != nil {
		return Path{}, err
	}

	key := pathKey{V1: s.Id, V2: t.Id}
	if e.cache != nil {
		if item := e.cache.Get(key); item != nil {
			perf.CacheHits.Add(1)
			return item.Value(), nil
		}
	}

	entities, err := g.Path(s.Id, t.Id)
	if err != nil {
		if state.IsEngineFault(err) {
			e.Env.Log.Warn("path query failed", "start", s.Name, "goal", t.Name, "error", err)
		}
		return Path{}, err
	}
	p := Path{Entities: entities, Cost: PathCost(entities)}
	if e.cache != nil {
		e.cache.Set(key, p, ttlcache.DefaultTTL)
	}
	return p, nil
}

// Done is closed once the build goroutine exits
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Close cancels an unfinished build and releases the engine. Queries against an
// already built graph keep working.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.cancel(context.Canceled)
		<-e.done
		_ = e.Trace.Close()
		if e.cache != nil {
			e.cache.DeleteAll()
		}
	})
}
