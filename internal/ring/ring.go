package ring

import (
	"fmt"
	"sort"
	"strings"

	"pknodes/internal/partitioner"
)

// Node is a physical cluster member. Many tokens may map to one node
// (virtual nodes); nodes are distinguished by address.
type Node struct {
	Addr       string
	Datacenter string
	Rack       string
}

// Entry assigns one owned token to a physical node, as reported by a
// "describe ring" style topology description.
type Entry struct {
	Token partitioner.Token
	Node  Node
}

// Range is the half-open interval (Start, End] owned by Node. The range
// ending at the ring's minimum token wraps: its Start is the maximum token.
type Range struct {
	Start partitioner.Token
	End   partitioner.Token
	Node  Node
}

// TopologyError reports ring invariant violations found at construction.
// Validation runs to completion so every offending boundary is listed.
type TopologyError struct {
	Violations []string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("invalid topology: %s", strings.Join(e.Violations, "; "))
}

// Ring is an immutable snapshot of the token ring for one resolution run.
type Ring struct {
	ranges []Range
	nodes  []Node
}

// New builds a ring from per-node token assignments. Ranges are derived
// from the sorted tokens, so the tiling invariant holds by construction;
// duplicate token positions are the only possible violation.
func New(entries []Entry) (*Ring, error) {
	if len(entries) == 0 {
		return nil, &TopologyError{Violations: []string{"ring has no token assignments"}}
	}

	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Token.Less(sorted[j].Token)
	})

	var violations []string
	for i := 1; i < len(sorted); i++ {
		if partitioner.Equal(sorted[i-1].Token, sorted[i].Token) {
			violations = append(violations, fmt.Sprintf(
				"token %s assigned to both %s and %s",
				sorted[i].Token, sorted[i-1].Node.Addr, sorted[i].Node.Addr))
		}
	}
	if violations != nil {
		return nil, &TopologyError{Violations: violations}
	}

	ranges := make([]Range, len(sorted))
	for i, e := range sorted {
		start := sorted[(i+len(sorted)-1)%len(sorted)].Token
		ranges[i] = Range{Start: start, End: e.Token, Node: e.Node}
	}
	return &Ring{ranges: ranges, nodes: distinctNodes(ranges)}, nil
}

// FromRanges builds a ring from explicit ranges, validating that they tile
// the ring exactly: sorted by end token, every range must start where its
// predecessor ends, and the first must close the circle with the last.
func FromRanges(ranges []Range) (*Ring, error) {
	if len(ranges) == 0 {
		return nil, &TopologyError{Violations: []string{"ring has no ranges"}}
	}

	sorted := append([]Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].End.Less(sorted[j].End)
	})

	var violations []string
	for i := range sorted {
		prev := sorted[(i+len(sorted)-1)%len(sorted)]
		cur := sorted[i]
		if i > 0 && partitioner.Equal(prev.End, cur.End) {
			violations = append(violations, fmt.Sprintf(
				"ranges owned by %s and %s both end at token %s",
				prev.Node.Addr, cur.Node.Addr, cur.End))
			continue
		}
		switch {
		case partitioner.Equal(cur.Start, prev.End):
			// Boundary closes correctly.
		case prev.End.Less(cur.Start):
			violations = append(violations, fmt.Sprintf(
				"gap between token %s (end of %s's range) and token %s (start of %s's range)",
				prev.End, prev.Node.Addr, cur.Start, cur.Node.Addr))
		default:
			violations = append(violations, fmt.Sprintf(
				"overlap: %s's range starts at token %s before %s's range ends at token %s",
				cur.Node.Addr, cur.Start, prev.Node.Addr, prev.End))
		}
	}
	if violations != nil {
		return nil, &TopologyError{Violations: violations}
	}

	return &Ring{ranges: sorted, nodes: distinctNodes(sorted)}, nil
}

func distinctNodes(ranges []Range) []Node {
	seen := make(map[string]bool, len(ranges))
	var nodes []Node
	for _, r := range ranges {
		if !seen[r.Node.Addr] {
			seen[r.Node.Addr] = true
			nodes = append(nodes, r.Node)
		}
	}
	return nodes
}

// Len returns the number of ranges (virtual nodes) on the ring.
func (r *Ring) Len() int {
	return len(r.ranges)
}

// Nodes returns the distinct physical nodes, ordered by the ring position
// of their first range.
func (r *Ring) Nodes() []Node {
	return append([]Node(nil), r.nodes...)
}

// locate returns the index of the range containing t: the first range whose
// end token is >= t, wrapping past the maximum boundary back to the minimum.
func (r *Ring) locate(t partitioner.Token) int {
	idx := sort.Search(len(r.ranges), func(i int) bool {
		return !r.ranges[i].End.Less(t)
	})
	if idx == len(r.ranges) {
		idx = 0
	}
	return idx
}

// Locate returns the range containing t.
func (r *Ring) Locate(t partitioner.Token) Range {
	return r.ranges[r.locate(t)]
}

// Owner returns the node that is the primary owner of t.
func (r *Ring) Owner(t partitioner.Token) Node {
	return r.Locate(t).Node
}

// Successors calls fn for each range clockwise from the range containing t,
// wrapping around the ring, until fn returns false or every range has been
// visited exactly once.
func (r *Ring) Successors(t partitioner.Token, fn func(Range) bool) {
	start := r.locate(t)
	for i := 0; i < len(r.ranges); i++ {
		if !fn(r.ranges[(start+i)%len(r.ranges)]) {
			return
		}
	}
}
