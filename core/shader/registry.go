package shader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/benji-bou/annocfg/core/graph"
	"github.com/benji-bou/annocfg/helper/collections/set"
)

var ErrRecursiveBuild = errors.New("graph is already being built")

type BuildFunc func(ctx context.Context) (*graph.ShaderGraph, error)

type buildChainKey struct{}

// buildChain lists the ids being built by the calling chain of builds.
func buildChain(ctx context.Context) *set.Set[string] {
	if chain, ok := ctx.Value(buildChainKey{}).(*set.Set[string]); ok {
		return chain
	}
	return set.New[string]()
}

func withBuild(ctx context.Context, id string) context.Context {
	chain := set.New(buildChain(ctx).Values()...)
	chain.Add(id)
	return context.WithValue(ctx, buildChainKey{}, chain)
}

type pendingBuild struct {
	done chan struct{}
	g    *graph.ShaderGraph
	err  error
}

// GraphRegistry caches built node groups by shader id. It is owned by the
// caller and lives as long as the editing session that shares the graphs.
type GraphRegistry struct {
	mu      sync.Mutex
	graphs  map[string]*graph.ShaderGraph
	pending map[string]*pendingBuild
}

func NewGraphRegistry() *GraphRegistry {
	return &GraphRegistry{
		graphs:  map[string]*graph.ShaderGraph{},
		pending: map[string]*pendingBuild{},
	}
}

// GetOrBuild returns the graph registered under id, building it at most once.
// Callers asking for an id another goroutine is building wait for that build.
// A build asking for an id of its own chain, through the context it was
// given, gets ErrRecursiveBuild. A failed build registers nothing.
func (r *GraphRegistry) GetOrBuild(ctx context.Context, id string, build BuildFunc) (*graph.ShaderGraph, error) {
	if buildChain(ctx).Contains(id) {
		return nil, fmt.Errorf("%w: %s", ErrRecursiveBuild, id)
	}
	r.mu.Lock()
	if g, ok := r.graphs[id]; ok {
		r.mu.Unlock()
		return g, nil
	}
	if p, ok := r.pending[id]; ok {
		r.mu.Unlock()
		select {
		case <-p.done:
			return p.g, p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p := &pendingBuild{done: make(chan struct{})}
	r.pending[id] = p
	r.mu.Unlock()

	slog.Debug("building shader graph", "shader", id)
	g, err := build(withBuild(ctx, id))

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	if err != nil {
		p.err = fmt.Errorf("build graph %s: %w", id, err)
	} else {
		p.g = g
		r.graphs[id] = g
	}
	close(p.done)
	return p.g, p.err
}

func (r *GraphRegistry) Lookup(id string) (*graph.ShaderGraph, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.graphs[id]
	return g, ok
}

func (r *GraphRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.graphs)
}

// Reset forgets every built graph, typically when the session is torn down.
// Builds in flight still complete.
func (r *GraphRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.graphs)
}
