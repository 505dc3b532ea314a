// Package ingest turns raw CSV files into validated, typed records and a
// CleaningReport per file. Individual bad rows are counted and skipped;
// only a structurally broken file (unreadable, required columns missing)
// fails the run.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrFileMalformed marks fatal ingestion failures: the file could not be
// read or its header lacks required columns. Check with errors.Is.
var ErrFileMalformed = errors.New("malformed input file")

// Table is one fully read CSV file with a resolved header.
type Table struct {
	File    string
	columns map[string]int
	Rows    [][]string
}

// ReadTable reads the whole CSV at path and verifies that every column in
// required is present in the header. Column matching is case-insensitive
// and ignores surrounding whitespace. The file handle is closed before
// returning on every path.
func ReadTable(path string, required []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open %s", filepath.Base(path)), ErrFileMalformed)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read header of %s", filepath.Base(path)), ErrFileMalformed)
	}

	t := &Table{File: filepath.Base(path), columns: make(map[string]int, len(header))}
	for i, name := range header {
		t.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrFileMalformed, "%s: missing required columns %s",
			t.File, strings.Join(missing, ", "))
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Mark(errors.Wrapf(err, "read %s row %d", t.File, len(t.Rows)+2), ErrFileMalformed)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Field returns the trimmed value of the named column for a row, or ""
// when the row is too short or the column is absent.
func (t *Table) Field(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if ts, err := time.Parse(l, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
