package report

import (
	"context"
	"sync"

	"pknodes/internal/cql"
	"pknodes/internal/partitioner"
	"pknodes/internal/placement"
	"pknodes/internal/ring"
)

// DefaultWorkers bounds batch concurrency when the caller does not choose.
const DefaultWorkers = 8

// Key is one primary key extracted from a slow-query log entry: the column
// values of the partition key and their declared CQL type names. Types may
// be empty, in which case every column is treated as text.
type Key struct {
	Keyspace string
	Table    string
	// Raw is the key's original textual form, kept for cross-referencing
	// the output against the source log line.
	Raw    string
	Values []string
	Types  []string
}

// Record is the ownership result for one key. When Err is set the key could
// not be resolved and the remaining fields are zero.
type Record struct {
	Key      Key
	Token    partitioner.Token
	Replicas []ring.Node
	// Partial flags a replica set smaller than the strategy's target,
	// surfaced explicitly rather than silently truncated.
	Partial bool
	Err     error
}

// Builder resolves batches of keys against one immutable topology snapshot.
// Per-key resolution is independent and side-effect-free, so a batch fans
// out across a bounded worker pool with no locking beyond job dispatch.
type Builder struct {
	part     partitioner.Partitioner
	resolver *placement.Resolver
	workers  int
}

// NewBuilder returns a builder resolving keys with the given partitioner and
// resolver. workers <= 0 selects DefaultWorkers.
func NewBuilder(p partitioner.Partitioner, rv *placement.Resolver, workers int) *Builder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Builder{part: p, resolver: rv, workers: workers}
}

func (b *Builder) columns(key Key) ([]cql.TypedValue, error) {
	if len(key.Types) > 0 && len(key.Types) != len(key.Values) {
		return nil, &cql.MalformedKeyError{
			Reason: "declared types do not match key column count",
		}
	}
	columns := make([]cql.TypedValue, len(key.Values))
	for i, v := range key.Values {
		typ := cql.TypeText
		if len(key.Types) > 0 {
			parsed, err := cql.ParseType(key.Types[i])
			if err != nil {
				return nil, err
			}
			typ = parsed
		}
		columns[i] = cql.TypedValue{Type: typ, Value: v}
	}
	return columns, nil
}

// ResolveOne resolves a single key.
func (b *Builder) ResolveOne(key Key) Record {
	columns, err := b.columns(key)
	if err != nil {
		return Record{Key: key, Err: err}
	}
	keyBytes, err := cql.EncodeKey(columns)
	if err != nil {
		return Record{Key: key, Err: err}
	}
	token := b.part.Token(keyBytes)
	replicas, partial := b.resolver.Replicas(token)
	return Record{
		Key:      key,
		Token:    token,
		Replicas: replicas,
		Partial:  partial,
	}
}

// Resolve maps each key to a Record, preserving input order. Malformed keys
// yield a Record with Err set and never abort the batch. Cancelling the
// context stops submission of further keys; in-flight resolutions run to
// completion and unprocessed keys carry the context's error.
func (b *Builder) Resolve(ctx context.Context, keys []Key) []Record {
	records := make([]Record, len(keys))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = b.ResolveOne(keys[i])
			}
		}()
	}

	submitted := len(keys)
	for i := range keys {
		select {
		case jobs <- i:
		case <-ctx.Done():
			submitted = i
		}
		if submitted != len(keys) {
			break
		}
	}
	close(jobs)
	wg.Wait()

	for i := submitted; i < len(keys); i++ {
		records[i] = Record{Key: keys[i], Err: ctx.Err()}
	}
	return records
}
