package partitioner

import (
	"math"
	"testing"
)

// Reference vectors for the Cassandra Murmur3 variant. "hello" pins the h1
// half of the published x64-128 digest (cbd8a7b341bd9b02...); "foo" matches
// the token Murmur3Partitioner computes for the same bytes.
func TestMurmur3H1_ReferenceVectors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want int64
	}{
		{"empty", []byte{}, 0},
		{"single zero byte", []byte{0x00}, 5048724184180415669},
		{"hello", []byte("hello"), -3758069500696749310},
		{"foo", []byte("foo"), -2129773440516405919},
		{"digits", []byte("123"), -7468325962851647638},
		{"high bytes", []byte{0xde, 0xad, 0xbe, 0xef}, 8688864458149848315},
		{"full block", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, 4920504430128807728},
		{"multi block", []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit."), 3758092288330582334},
	}

	for _, tc := range cases {
		got := murmur3H1(tc.in)
		if got != tc.want {
			t.Errorf("murmur3H1(%s) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestMurmur3H1_Deterministic(t *testing.T) {
	key := []byte("user:12345:session")
	first := murmur3H1(key)
	for i := 0; i < 10; i++ {
		if got := murmur3H1(key); got != first {
			t.Fatalf("murmur3H1 not deterministic: %d != %d", got, first)
		}
	}
}

func TestMurmur3_TokenNormalizesMinInt64(t *testing.T) {
	// No practical key hashes to MinInt64, so exercise the normalization
	// path directly through the exported surface by checking the invariant:
	// no token Murmur3 returns may equal MinInt64.
	p := Murmur3{}
	keys := [][]byte{{}, {0}, []byte("a"), []byte("foo"), []byte("hello")}
	for _, k := range keys {
		if tok := p.Token(k).(LongToken); int64(tok) == math.MinInt64 {
			t.Errorf("token for %q is the reserved MinInt64", k)
		}
	}
}
