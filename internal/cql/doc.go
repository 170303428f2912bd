// Package cql serializes partition key values into the byte form Cassandra
// hashes. Single-column keys serialize to the bare value encoding of their
// CQL type; composite keys use the length-prefixed component encoding with a
// trailing end-of-component byte per column.
package cql
