package ring

import (
	"errors"
	"math"
	"strings"
	"testing"

	"pknodes/internal/partitioner"
)

func fourNodeRing(t *testing.T) *Ring {
	t.Helper()
	r, err := New([]Entry{
		{partitioner.LongToken(-6000), Node{Addr: "10.0.0.1", Datacenter: "dc1", Rack: "r1"}},
		{partitioner.LongToken(-2000), Node{Addr: "10.0.0.2", Datacenter: "dc1", Rack: "r2"}},
		{partitioner.LongToken(2000), Node{Addr: "10.0.0.3", Datacenter: "dc1", Rack: "r1"}},
		{partitioner.LongToken(6000), Node{Addr: "10.0.0.4", Datacenter: "dc1", Rack: "r2"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRing_Locate(t *testing.T) {
	r := fourNodeRing(t)

	cases := []struct {
		token int64
		owner string
	}{
		{-6000, "10.0.0.1"}, // exactly on a boundary: (start, end] includes end
		{-5999, "10.0.0.2"}, // one past a boundary belongs to the next range
		{0, "10.0.0.3"},
		{1999, "10.0.0.3"}, // just below a boundary stays in that range
		{2000, "10.0.0.3"},
		{2001, "10.0.0.4"},
		{6001, "10.0.0.1"},                // wraps past the maximum token
		{math.MaxInt64, "10.0.0.1"},       // wrap range (6000, -6000]
		{math.MinInt64 + 1, "10.0.0.1"},   // still inside the wrap range
		{-6001, "10.0.0.1"},
	}
	for _, tc := range cases {
		got := r.Owner(partitioner.LongToken(tc.token))
		if got.Addr != tc.owner {
			t.Errorf("Owner(%d) = %s, want %s", tc.token, got.Addr, tc.owner)
		}
	}
}

func TestRing_Successors(t *testing.T) {
	r := fourNodeRing(t)

	var owners []string
	r.Successors(partitioner.LongToken(0), func(rng Range) bool {
		owners = append(owners, rng.Node.Addr)
		return true
	})

	want := []string{"10.0.0.3", "10.0.0.4", "10.0.0.1", "10.0.0.2"}
	if len(owners) != len(want) {
		t.Fatalf("visited %d ranges, want %d", len(owners), len(want))
	}
	for i := range want {
		if owners[i] != want[i] {
			t.Errorf("successor %d = %s, want %s", i, owners[i], want[i])
		}
	}
}

func TestRing_SuccessorsEarlyStop(t *testing.T) {
	r := fourNodeRing(t)

	visits := 0
	r.Successors(partitioner.LongToken(0), func(Range) bool {
		visits++
		return visits < 2
	})
	if visits != 2 {
		t.Errorf("visited %d ranges after early stop, want 2", visits)
	}
}

func TestRing_FromRanges_FullTiling(t *testing.T) {
	n1 := Node{Addr: "10.0.0.1", Datacenter: "dc1", Rack: "r1"}
	n2 := Node{Addr: "10.0.0.2", Datacenter: "dc1", Rack: "r2"}

	// Two ranges that exactly tile the signed 64-bit token space.
	r, err := FromRanges([]Range{
		{partitioner.LongToken(math.MinInt64), partitioner.LongToken(0), n1},
		{partitioner.LongToken(0), partitioner.LongToken(math.MinInt64), n2},
	})
	if err != nil {
		t.Fatalf("FromRanges: %v", err)
	}
	if got := r.Owner(partitioner.LongToken(-1)); got.Addr != "10.0.0.1" {
		t.Errorf("Owner(-1) = %s, want 10.0.0.1", got.Addr)
	}
	if got := r.Owner(partitioner.LongToken(1)); got.Addr != "10.0.0.2" {
		t.Errorf("Owner(1) = %s, want 10.0.0.2", got.Addr)
	}
	if got := r.Owner(partitioner.LongToken(math.MaxInt64)); got.Addr != "10.0.0.2" {
		t.Errorf("Owner(max) = %s, want 10.0.0.2", got.Addr)
	}
}

func TestRing_FromRanges_GapFails(t *testing.T) {
	n1 := Node{Addr: "10.0.0.1"}
	n2 := Node{Addr: "10.0.0.2"}

	// Deliberate 1-token gap: second range starts at 101 instead of 100.
	_, err := FromRanges([]Range{
		{partitioner.LongToken(0), partitioner.LongToken(100), n1},
		{partitioner.LongToken(101), partitioner.LongToken(0), n2},
	})
	var te *TopologyError
	if !errors.As(err, &te) {
		t.Fatalf("expected TopologyError, got %v", err)
	}
	if len(te.Violations) == 0 {
		t.Fatal("expected at least one violation")
	}
	if !strings.Contains(te.Violations[0], "gap") {
		t.Errorf("violation should name the gap: %q", te.Violations[0])
	}
}

func TestRing_FromRanges_ReportsAllViolations(t *testing.T) {
	n1 := Node{Addr: "10.0.0.1"}
	n2 := Node{Addr: "10.0.0.2"}
	n3 := Node{Addr: "10.0.0.3"}

	// One gap and one overlap; both boundaries must be reported.
	_, err := FromRanges([]Range{
		{partitioner.LongToken(0), partitioner.LongToken(100), n1},
		{partitioner.LongToken(101), partitioner.LongToken(200), n2},
		{partitioner.LongToken(150), partitioner.LongToken(0), n3},
	})
	var te *TopologyError
	if !errors.As(err, &te) {
		t.Fatalf("expected TopologyError, got %v", err)
	}
	if len(te.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(te.Violations), te.Violations)
	}
}

func TestRing_New_DuplicateToken(t *testing.T) {
	_, err := New([]Entry{
		{partitioner.LongToken(100), Node{Addr: "10.0.0.1"}},
		{partitioner.LongToken(100), Node{Addr: "10.0.0.2"}},
	})
	var te *TopologyError
	if !errors.As(err, &te) {
		t.Fatalf("expected TopologyError for duplicate token, got %v", err)
	}
}

func TestRing_New_Empty(t *testing.T) {
	var te *TopologyError
	if _, err := New(nil); !errors.As(err, &te) {
		t.Fatalf("expected TopologyError for empty ring, got %v", err)
	}
}

func TestRing_ByteOrderedTokens(t *testing.T) {
	n1 := Node{Addr: "10.0.0.1"}
	n2 := Node{Addr: "10.0.0.2"}
	r, err := New([]Entry{
		{partitioner.BytesToken([]byte("m")), n1},
		{partitioner.BytesToken([]byte("z")), n2},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := r.Owner(partitioner.BytesToken([]byte("alpha"))); got.Addr != "10.0.0.1" {
		t.Errorf("Owner(alpha) = %s, want 10.0.0.1", got.Addr)
	}
	if got := r.Owner(partitioner.BytesToken([]byte("tango"))); got.Addr != "10.0.0.2" {
		t.Errorf("Owner(tango) = %s, want 10.0.0.2", got.Addr)
	}
	// Past the maximum boundary the ring wraps to the minimum.
	if got := r.Owner(partitioner.BytesToken([]byte("zz"))); got.Addr != "10.0.0.1" {
		t.Errorf("Owner(zz) = %s, want 10.0.0.1", got.Addr)
	}
}

func TestRing_NodesDistinct(t *testing.T) {
	n1 := Node{Addr: "10.0.0.1", Datacenter: "dc1", Rack: "r1"}
	n2 := Node{Addr: "10.0.0.2", Datacenter: "dc1", Rack: "r2"}
	r, err := New([]Entry{
		{partitioner.LongToken(0), n1},
		{partitioner.LongToken(100), n2},
		{partitioner.LongToken(200), n1},
		{partitioner.LongToken(300), n2},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4 vnode ranges", r.Len())
	}
	if got := len(r.Nodes()); got != 2 {
		t.Errorf("Nodes() returned %d nodes, want 2 distinct", got)
	}
}
