package placement

import (
	"pknodes/internal/partitioner"
	"pknodes/internal/ring"
)

// Resolver computes replica sets against one immutable ring snapshot and
// strategy. It holds no mutable state after construction, so a single
// Resolver may be shared by any number of concurrent resolutions.
type Resolver struct {
	ring       *ring.Ring
	strategy   Strategy
	racksPerDC map[string]int
}

// NewResolver validates the strategy against the ring's node set and returns
// a resolver. Validation failures (unknown datacenter, non-positive factor)
// are fatal for the run.
func NewResolver(r *ring.Ring, s Strategy) (*Resolver, error) {
	nodes := r.Nodes()
	if err := s.Validate(nodes); err != nil {
		return nil, err
	}

	racks := make(map[string]map[string]bool)
	for _, n := range nodes {
		if racks[n.Datacenter] == nil {
			racks[n.Datacenter] = make(map[string]bool)
		}
		racks[n.Datacenter][n.Rack] = true
	}
	racksPerDC := make(map[string]int, len(racks))
	for dc, set := range racks {
		racksPerDC[dc] = len(set)
	}

	return &Resolver{ring: r, strategy: s, racksPerDC: racksPerDC}, nil
}

// Replicas returns the ordered replica set for t: the first distinct owning
// nodes encountered walking clockwise from t's primary range, filtered by
// the strategy's placement constraints. partial is true when the ring was
// exhausted before the strategy's target count was reached; that is a
// flagged condition, not an error.
func (rv *Resolver) Replicas(t partitioner.Token) (replicas []ring.Node, partial bool) {
	switch s := rv.strategy.(type) {
	case SimpleStrategy:
		replicas = rv.simpleReplicas(t, s.ReplicationFactor)
	case NetworkTopologyStrategy:
		replicas = rv.networkTopologyReplicas(t, s.DatacenterFactors)
	}
	return replicas, len(replicas) < rv.strategy.TargetFactor()
}

func (rv *Resolver) simpleReplicas(t partitioner.Token, rf int) []ring.Node {
	replicas := make([]ring.Node, 0, rf)
	seen := make(map[string]bool, rf)

	rv.ring.Successors(t, func(rng ring.Range) bool {
		// Multiple vnode ranges of one physical node count once.
		if seen[rng.Node.Addr] {
			return true
		}
		seen[rng.Node.Addr] = true
		replicas = append(replicas, rng.Node)
		return len(replicas) < rf
	})
	return replicas
}

func (rv *Resolver) networkTopologyReplicas(t partitioner.Token, factors map[string]int) []ring.Node {
	var replicas []ring.Node
	seen := make(map[string]bool)
	counts := make(map[string]int, len(factors))
	racksUsed := make(map[string]map[string]bool, len(factors))

	// Nodes held back because their rack already contributed; admitted at
	// the end, in encounter order, if their datacenter still needs replicas.
	var heldBack []ring.Node

	satisfied := func() bool {
		for dc, rf := range factors {
			if counts[dc] < rf {
				return false
			}
		}
		return true
	}

	rv.ring.Successors(t, func(rng ring.Range) bool {
		n := rng.Node
		if seen[n.Addr] {
			return true
		}
		seen[n.Addr] = true

		rf, configured := factors[n.Datacenter]
		if !configured || counts[n.Datacenter] >= rf {
			return true
		}

		racks := racksUsed[n.Datacenter]
		if racks == nil {
			racks = make(map[string]bool)
			racksUsed[n.Datacenter] = racks
		}
		if racks[n.Rack] && len(racks) < rv.racksPerDC[n.Datacenter] {
			// Same rack again while other racks have not contributed yet.
			heldBack = append(heldBack, n)
			return true
		}

		racks[n.Rack] = true
		counts[n.Datacenter]++
		replicas = append(replicas, n)
		return !satisfied()
	})

	for _, n := range heldBack {
		if counts[n.Datacenter] >= factors[n.Datacenter] {
			continue
		}
		counts[n.Datacenter]++
		replicas = append(replicas, n)
	}
	return replicas
}
