// Package placement resolves the replica set for a token under a
// replication strategy. Starting from the token's primary range it walks the
// ring clockwise, collecting distinct physical nodes; the network-topology
// strategy additionally enforces per-datacenter replica counts and rack
// diversity within each datacenter.
package placement
