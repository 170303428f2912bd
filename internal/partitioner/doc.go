// Package partitioner maps serialized partition keys to ring tokens.
// It implements the two partitioners found in practice: Murmur3Partitioner
// (hashed 64-bit tokens) and ByteOrderedPartitioner (lexicographic raw-byte
// tokens). Ring code operates over the abstract Token type so it stays
// partitioner-agnostic.
package partitioner
