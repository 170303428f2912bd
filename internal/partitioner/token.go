package partitioner

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// Token is a position on the ring. Tokens produced by the same partitioner
// are totally ordered; tokens from different partitioners must never be
// compared.
type Token interface {
	// Less reports whether the token sorts before other on the ring.
	Less(other Token) bool
	String() string
}

// LongToken is a signed 64-bit token produced by Murmur3Partitioner.
type LongToken int64

func (t LongToken) Less(other Token) bool {
	return t < other.(LongToken)
}

func (t LongToken) String() string {
	return strconv.FormatInt(int64(t), 10)
}

// BytesToken is a raw-byte token produced by ByteOrderedPartitioner.
// Ordering is lexicographic over the key bytes.
type BytesToken []byte

func (t BytesToken) Less(other Token) bool {
	return bytes.Compare(t, other.(BytesToken)) < 0
}

func (t BytesToken) String() string {
	return hex.EncodeToString(t)
}

// Equal reports whether two tokens occupy the same ring position.
func Equal(a, b Token) bool {
	return !a.Less(b) && !b.Less(a)
}
