package topology

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"pknodes/internal/partitioner"
	"pknodes/internal/placement"
	"pknodes/internal/ring"
)

// Snapshot is a validated, immutable topology for one resolution run.
type Snapshot struct {
	Partitioner partitioner.Partitioner
	Ring        *ring.Ring
	Strategy    placement.Strategy
	Resolver    *placement.Resolver
}

type fileRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type fileNode struct {
	Addr       string      `yaml:"addr"`
	Datacenter string      `yaml:"datacenter"`
	Rack       string      `yaml:"rack"`
	Tokens     []string    `yaml:"tokens"`
	Ranges     []fileRange `yaml:"ranges"`
}

type fileStrategy struct {
	Class             string         `yaml:"class"`
	ReplicationFactor int            `yaml:"replication_factor"`
	Datacenters       map[string]int `yaml:"datacenters"`
}

type fileSchema struct {
	Partitioner string       `yaml:"partitioner"`
	Strategy    fileStrategy `yaml:"strategy"`
	Nodes       []fileNode   `yaml:"nodes"`
}

// Load reads and parses a topology description file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading topology file")
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "topology file %s", path)
	}
	return snap, nil
}

// Parse builds a validated Snapshot from a YAML topology description.
// Ring violations and strategy problems are fatal: the input itself is
// unusable and no resolution against it can be trusted.
func Parse(data []byte) (*Snapshot, error) {
	var schema fileSchema
	if err := yaml.UnmarshalStrict(data, &schema); err != nil {
		return nil, errors.Wrap(err, "parsing topology YAML")
	}

	part, err := partitioner.ForName(schema.Partitioner)
	if err != nil {
		return nil, err
	}

	strategy, err := parseStrategy(schema.Strategy)
	if err != nil {
		return nil, err
	}

	r, err := buildRing(part, schema.Nodes)
	if err != nil {
		return nil, err
	}

	resolver, err := placement.NewResolver(r, strategy)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Partitioner: part,
		Ring:        r,
		Strategy:    strategy,
		Resolver:    resolver,
	}, nil
}

func parseStrategy(fs fileStrategy) (placement.Strategy, error) {
	switch short := strings.TrimPrefix(fs.Class, "org.apache.cassandra.locator."); short {
	case "SimpleStrategy":
		return placement.SimpleStrategy{ReplicationFactor: fs.ReplicationFactor}, nil
	case "NetworkTopologyStrategy":
		return placement.NetworkTopologyStrategy{DatacenterFactors: fs.Datacenters}, nil
	case "":
		return nil, errors.New("topology is missing a replication strategy class")
	}
	return nil, errors.Errorf("unsupported replication strategy %q", fs.Class)
}

func buildRing(part partitioner.Partitioner, nodes []fileNode) (*ring.Ring, error) {
	var entries []ring.Entry
	var ranges []ring.Range

	for i, fn := range nodes {
		if fn.Addr == "" {
			return nil, errors.Errorf("node %d has no address", i)
		}
		node := ring.Node{Addr: fn.Addr, Datacenter: fn.Datacenter, Rack: fn.Rack}
		if len(fn.Tokens) == 0 && len(fn.Ranges) == 0 {
			return nil, errors.Errorf("node %s owns no tokens or ranges", fn.Addr)
		}

		for _, ts := range fn.Tokens {
			tok, err := part.ParseToken(ts)
			if err != nil {
				return nil, errors.Wrapf(err, "node %s", fn.Addr)
			}
			entries = append(entries, ring.Entry{Token: tok, Node: node})
		}
		for _, fr := range fn.Ranges {
			start, err := part.ParseToken(fr.Start)
			if err != nil {
				return nil, errors.Wrapf(err, "node %s range start", fn.Addr)
			}
			end, err := part.ParseToken(fr.End)
			if err != nil {
				return nil, errors.Wrapf(err, "node %s range end", fn.Addr)
			}
			ranges = append(ranges, ring.Range{Start: start, End: end, Node: node})
		}
	}

	switch {
	case len(entries) > 0 && len(ranges) > 0:
		return nil, errors.New("topology mixes per-node tokens and explicit ranges; use one form")
	case len(ranges) > 0:
		return ring.FromRanges(ranges)
	default:
		return ring.New(entries)
	}
}

// String summarizes the snapshot for logging.
func (s *Snapshot) String() string {
	return fmt.Sprintf("%d nodes, %d ranges, partitioner %s",
		len(s.Ring.Nodes()), s.Ring.Len(), s.Partitioner.Name())
}
