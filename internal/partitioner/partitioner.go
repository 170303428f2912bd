package partitioner

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical Cassandra partitioner class names.
const (
	Murmur3Name     = "org.apache.cassandra.dht.Murmur3Partitioner"
	ByteOrderedName = "org.apache.cassandra.dht.ByteOrderedPartitioner"
)

// Partitioner converts serialized partition key bytes into ring tokens.
type Partitioner interface {
	// Name returns the canonical Cassandra class name.
	Name() string
	// Token computes the ring token for the serialized key bytes.
	Token(key []byte) Token
	// ParseToken parses a token from its textual form, as found in
	// topology descriptions ("describe ring" output and the like).
	ParseToken(s string) (Token, error)
}

// Murmur3 is the standard partitioner: the low 64 bits of a Murmur3 x64-128
// hash over the key bytes, on the signed 64-bit ring.
type Murmur3 struct{}

func (Murmur3) Name() string { return Murmur3Name }

func (Murmur3) Token(key []byte) Token {
	h := murmur3H1(key)
	// MinInt64 is reserved; the partitioner normalizes it to MaxInt64.
	if h == math.MinInt64 {
		h = math.MaxInt64
	}
	return LongToken(h)
}

func (Murmur3) ParseToken(s string) (Token, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid murmur3 token %q: %w", s, err)
	}
	return LongToken(v), nil
}

// ByteOrdered is the order-preserving partitioner: the token is the raw key
// bytes compared lexicographically.
type ByteOrdered struct{}

func (ByteOrdered) Name() string { return ByteOrderedName }

func (ByteOrdered) Token(key []byte) Token {
	return BytesToken(append([]byte(nil), key...))
}

func (ByteOrdered) ParseToken(s string) (Token, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid byte-ordered token %q: %w", s, err)
	}
	return BytesToken(b), nil
}

// ForName returns the partitioner for a canonical class name or short alias.
func ForName(name string) (Partitioner, error) {
	switch short := strings.TrimPrefix(name, "org.apache.cassandra.dht."); strings.ToLower(short) {
	case "murmur3partitioner", "murmur3":
		return Murmur3{}, nil
	case "byteorderedpartitioner", "byteordered":
		return ByteOrdered{}, nil
	}
	return nil, fmt.Errorf("unsupported partitioner %q", name)
}
