package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one benchmark result row.
type Record struct {
	Name       string
	Cells      int
	Average    float64
	Iterations int
}

func (r Record) fields() []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Cells),
		strconv.FormatFloat(r.Average, 'f', -1, 64),
		strconv.Itoa(r.Iterations),
	}
}

// CSVLog is an append-only results file with rows
// name,num_cells,average_time_seconds,iterations and no header.
type CSVLog struct {
	path string
}

func NewCSVLog(path string) *CSVLog {
	return &CSVLog{path: path}
}

func (l *CSVLog) Path() string { return l.path }

// Append writes one row, creating the file and its directory if needed.
// Earlier rows are never rewritten.
func (l *CSVLog) Append(rec Record) error {
	if strings.ContainsAny(rec.Name, "\r\n") {
		return fmt.Errorf("%w: name contains a line break", ErrInvalidRecord)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(rec.fields()); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAll loads every well-formed row. A missing file yields no records.
func (l *CSVLog) ReadAll() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords parses rows from r, skipping header lines and rows that do not
// have four parseable fields.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, bool) {
	if len(row) != 4 {
		return Record{}, false
	}
	cells, err := strconv.Atoi(row[1])
	if err != nil {
		return Record{}, false
	}
	avg, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Record{}, false
	}
	iters, err := strconv.Atoi(row[3])
	if err != nil {
		return Record{}, false
	}
	return Record{Name: row[0], Cells: cells, Average: avg, Iterations: iters}, true
}

// Group is every record sharing one experiment name, in file order.
type Group struct {
	Name    string
	Records []Record
}

// GroupByName groups records by name, ordered by first appearance.
func GroupByName(records []Record) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, rec := range records {
		i, ok := index[rec.Name]
		if !ok {
			i = len(groups)
			index[rec.Name] = i
			groups = append(groups, Group{Name: rec.Name})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
