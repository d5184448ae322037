package policy

import (
	"fmt"
	"sort"
	"sync"
)

// Registry keys. They double as the policy segment of recording file names.
const (
	NameDefault         = "Policy"
	NameRandom          = "Policy_Random"
	NameRandomNetwork   = "Policy_Random_Network"
	NameRandomNetwork2  = "Policy_Random_Network2"
	NameFollowLeader    = "Policy_Follow_Leader"
	NameBoids           = "Policy_Boids"
	NameSimplifiedBoids = "Policy_Simplified_Boids"
)

// Factory constructs a policy. world may be nil.
type Factory func(world StateReader, dimObs, dimAction int, opts ...Option) (Policy, error)

// Registry resolves policy names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in policy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NameDefault, NewNoop)
	r.Register(NameRandom, NewRandom)
	r.Register(NameRandomNetwork, NewRandomNetwork)
	r.Register(NameRandomNetwork2, NewClusteredNetwork)
	r.Register(NameFollowLeader, NewFollowLeader)
	r.Register(NameBoids, NewBoids)
	r.Register(NameSimplifiedBoids, NewSimplifiedBoids)
	return r
}

func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

func (r *Registry) New(name string, world StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	r.mu.RLock()
	f := r.factories[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
	return f(world, dimObs, dimAction, opts...)
}

// Names lists registered keys in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
