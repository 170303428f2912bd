package placement

import (
	"fmt"

	"pknodes/internal/ring"
)

// Strategy governs how many distinct nodes hold a replica for a token and
// under what placement constraint. Only the two strategies found in
// practice exist; the set is closed.
type Strategy interface {
	// TargetFactor is the total number of replicas the strategy aims for.
	TargetFactor() int
	// Validate checks the strategy against the cluster's node set.
	Validate(nodes []ring.Node) error
}

// UnknownDatacenterError reports a strategy that references a datacenter
// with no member nodes. Fatal at setup: no resolution against such a
// strategy can be trusted.
type UnknownDatacenterError struct {
	Datacenter string
}

func (e *UnknownDatacenterError) Error() string {
	return fmt.Sprintf("replication strategy references unknown datacenter %q", e.Datacenter)
}

// SimpleStrategy places replicas on the next distinct nodes clockwise from
// the primary owner, ignoring datacenter and rack.
type SimpleStrategy struct {
	ReplicationFactor int
}

func (s SimpleStrategy) TargetFactor() int {
	return s.ReplicationFactor
}

func (s SimpleStrategy) Validate(nodes []ring.Node) error {
	if s.ReplicationFactor <= 0 {
		return fmt.Errorf("replication factor must be positive, got %d", s.ReplicationFactor)
	}
	return nil
}

// NetworkTopologyStrategy places a configured number of replicas in each
// datacenter, spreading them across racks within the datacenter.
type NetworkTopologyStrategy struct {
	// DatacenterFactors maps datacenter name to its replication factor.
	DatacenterFactors map[string]int
}

func (s NetworkTopologyStrategy) TargetFactor() int {
	total := 0
	for _, rf := range s.DatacenterFactors {
		total += rf
	}
	return total
}

func (s NetworkTopologyStrategy) Validate(nodes []ring.Node) error {
	if len(s.DatacenterFactors) == 0 {
		return fmt.Errorf("network topology strategy configures no datacenters")
	}
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.Datacenter] = true
	}
	for dc, rf := range s.DatacenterFactors {
		if rf <= 0 {
			return fmt.Errorf("replication factor for datacenter %q must be positive, got %d", dc, rf)
		}
		if !present[dc] {
			return &UnknownDatacenterError{Datacenter: dc}
		}
	}
	return nil
}
