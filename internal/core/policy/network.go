package policy

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/zeusync/swarmsim/internal/core/models"
)

// graph is a symmetric weighted adjacency matrix over vehicles.
type graph [][]float64

func newGraph(n int) graph {
	g := make(graph, n)
	for i := range g {
		g[i] = make([]float64, n)
	}
	return g
}

func (g graph) connect(i, j int, w float64) {
	g[i][j] = w
	g[j][i] = w
}

// completeGraph links every pair of vehicles with a U(0,1) weight.
func completeGraph(n int, rng *rand.Rand) graph {
	g := newGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.connect(i, j, rng.Float64())
		}
	}
	return g
}

// clusteredGraph splits vehicles into ceil(sqrt(n)) contiguous clusters,
// fully connected inside with strong weights, and chains consecutive
// clusters through one weak bridge between their first members.
func clusteredGraph(n int, rng *rand.Rand) graph {
	g := newGraph(n)
	k := int(math.Ceil(math.Sqrt(float64(n))))
	cluster := func(i int) int { return i * k / n }

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if cluster(i) == cluster(j) {
				g.connect(i, j, 0.5+0.5*rng.Float64())
			}
		}
	}

	first := make([]int, 0, k)
	for i := 0; i < n; i++ {
		if len(first) == 0 || cluster(i) != cluster(first[len(first)-1]) {
			first = append(first, i)
		}
	}
	for c := 1; c < len(first); c++ {
		g.connect(first[c-1], first[c], 0.5*rng.Float64())
	}
	return g
}

// Network draws a random impulse per vehicle each tick and gives every
// vehicle the weighted mean of the impulses over its closed neighbourhood
// in a fixed connectivity graph. The graph is built on first use from the
// policy's RNG, sized from the world if one was given.
type Network struct {
	name   string
	build  func(n int, rng *rand.Rand) graph
	rng    *rand.Rand
	limits Limits
	graph  graph
}

func newNetwork(name string, build func(int, *rand.Rand) graph, world StateReader, dimObs, dimAction int, opts []Option) (Policy, error) {
	if err := checkDims(dimObs, dimAction); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	p := &Network{name: name, build: build, rng: newRNG(o.seed), limits: o.limits}
	if world != nil && world.NumVehicles() > 0 {
		p.graph = build(world.NumVehicles(), p.rng)
	}
	return p, nil
}

// NewRandomNetwork uses a complete graph.
func NewRandomNetwork(world StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	return newNetwork(NameRandomNetwork, completeGraph, world, dimObs, dimAction, opts)
}

// NewClusteredNetwork uses a graph of weakly bridged dense clusters.
func NewClusteredNetwork(world StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	return newNetwork(NameRandomNetwork2, clusteredGraph, world, dimObs, dimAction, opts)
}

func (p *Network) Name() string { return p.name }

func (p *Network) Action(obs models.Observation) ([]models.Action, error) {
	n := len(obs)
	if n == 0 {
		return []models.Action{}, nil
	}
	if p.graph == nil {
		p.graph = p.build(n, p.rng)
	}
	if len(p.graph) != n {
		return nil, fmt.Errorf("%w: graph has %d nodes, observation has %d vehicles",
			models.ErrShapeMismatch, len(p.graph), n)
	}

	impulses := make([]models.Action, n)
	for i := range impulses {
		impulses[i] = randomImpulse(p.rng, p.limits)
	}

	actions := make([]models.Action, n)
	for i := range actions {
		steer, throttle, total := impulses[i].Steer, impulses[i].Throttle, 1.0
		for j, w := range p.graph[i] {
			if w == 0 {
				continue
			}
			steer += w * impulses[j].Steer
			throttle += w * impulses[j].Throttle
			total += w
		}
		actions[i] = models.Action{Steer: steer / total, Throttle: throttle / total}
	}
	return actions, nil
}
