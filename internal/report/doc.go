// Package report joins extracted primary keys against the placement
// resolver, emitting one ownership record per key. Records preserve input
// order so callers can cross-reference original log lines; per-key failures
// are carried on the record instead of aborting the batch.
package report
