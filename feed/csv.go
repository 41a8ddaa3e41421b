package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Get returns the trimmed value of field, or "" when the row has none.
func (r Row) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Record is a Row plus the 1-based line it starts on in the source, so
// reports can point at the sheet row even after blank lines were dropped.
type Record struct {
	Line int
	Row  Row
}

// ParseCSV reads a header line followed by records. Short records leave
// their trailing fields out of the Row, extra fields are dropped and
// records with nothing but blanks are skipped.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feed: parse csv header: %w", err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	var recs []Record
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return recs, fmt.Errorf("feed: parse csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		row := make(Row, len(header))
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			if name == "" {
				continue
			}
			row[name] = rec[i]
		}
		recs = append(recs, Record{Line: line, Row: row})
	}
	return recs, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
