// Package ring models a cluster's token ring as an immutable snapshot of
// sorted token ranges. Each range maps to the physical node that is its
// primary owner; lookups binary-search the sorted boundaries and wrap around
// the ring. Construction validates that the ranges tile the token space with
// no gaps or overlaps.
package ring
