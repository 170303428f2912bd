// Package topology loads a cluster topology snapshot from its YAML
// description: the partitioner, the replication strategy, and each node's
// datacenter, rack, and owned tokens or ranges. Loading validates every ring
// and strategy invariant so that resolution runs only against a trusted
// snapshot.
package topology
