package main

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"pknodes/internal/report"
)

// readKeys loads a slow primary key CSV: keyspace,table,primary_key with an
// optional fourth column of colon-separated CQL type names. When types are
// declared the key value is split on ":" into that many columns; without
// types the key is a single text column. The header row is skipped, and
// rows without full data or with truncated key output are ignored.
func readKeys(r io.Reader) ([]report.Key, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var keys []report.Key
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 || strings.Contains(row[2], "truncated output") {
			logrus.Debugf("ignoring row %s", strings.Join(row, ","))
			continue
		}

		key := report.Key{
			Keyspace: row[0],
			Table:    row[1],
			Raw:      row[2],
			Values:   []string{row[2]},
		}
		if len(row) >= 4 && row[3] != "" {
			key.Types = strings.Split(row[3], ":")
			key.Values = strings.SplitN(row[2], ":", len(key.Types))
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// writeRecords renders ownership records as CSV: one row per key with its
// token, partial flag, per-key error if any, and one column per replica.
func writeRecords(w io.Writer, records []report.Record) error {
	maxReplicas := 0
	for _, rec := range records {
		if len(rec.Replicas) > maxReplicas {
			maxReplicas = len(rec.Replicas)
		}
	}

	header := []string{"keyspace", "table", "primary_key", "token", "partial", "error"}
	for i := 0; i < maxReplicas; i++ {
		header = append(header, "endpoint")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{rec.Key.Keyspace, rec.Key.Table, rec.Key.Raw}
		if rec.Err != nil {
			row = append(row, "", "", rec.Err.Error())
		} else {
			row = append(row, rec.Token.String(), strconv.FormatBool(rec.Partial), "")
			for _, n := range rec.Replicas {
				row = append(row, n.Addr)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
