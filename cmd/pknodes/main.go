// Command pknodes resolves slow-query primary keys to the cluster nodes
// that own them, using a static topology description instead of a live
// cluster connection.
package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pknodes/internal/report"
	"pknodes/internal/topology"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

type options struct {
	topologyPath string
	keysPath     string
	outputPath   string
	workers      int
	verbose      bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "pknodes",
		Short: "Find the cluster nodes that own slow-query primary keys",
		Long: `pknodes joins a slow primary key CSV against a cluster topology
description and reports, for each key, its ring token and the ordered set of
nodes holding replicas. Placement is computed offline: partitioner hashing
and replica resolution run against the topology snapshot alone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.topologyPath, "topology", "t", "", "cluster topology YAML (required)")
	flags.StringVarP(&opts.keysPath, "keys", "k", "", "slow primary key CSV (required)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "output CSV path (default stdout)")
	flags.IntVarP(&opts.workers, "workers", "w", report.DefaultWorkers, "concurrent key resolutions")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	cobra.CheckErr(cmd.MarkFlagRequired("topology"))
	cobra.CheckErr(cmd.MarkFlagRequired("keys"))
	return cmd
}

func run(ctx context.Context, opts *options) error {
	snap, err := topology.Load(opts.topologyPath)
	if err != nil {
		return err
	}
	logrus.Infof("loaded topology: %s", snap)

	in, err := os.Open(opts.keysPath)
	if err != nil {
		return errors.Wrap(err, "opening key CSV")
	}
	defer in.Close()

	keys, err := readKeys(in)
	if err != nil {
		return errors.Wrap(err, "reading key CSV")
	}
	logrus.Infof("resolving %d keys across %d workers", len(keys), opts.workers)

	builder := report.NewBuilder(snap.Partitioner, snap.Resolver, opts.workers)
	records := builder.Resolve(ctx, keys)

	failures := 0
	for _, rec := range records {
		if rec.Err != nil {
			failures++
			logrus.Warnf("unable to resolve %s.%s key %q: %v",
				rec.Key.Keyspace, rec.Key.Table, rec.Key.Raw, rec.Err)
		}
	}

	out := os.Stdout
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer f.Close()
		out = f
	}
	if err := writeRecords(out, records); err != nil {
		return errors.Wrap(err, "writing report")
	}

	if failures > 0 {
		logrus.Warnf("%d of %d keys failed to resolve", failures, len(records))
	}
	return nil
}
