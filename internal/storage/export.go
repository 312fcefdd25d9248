package storage

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// RunSummary is the JSON form of one completed run.
type RunSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Strategy   string    `json:"strategy"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Seed       int64     `json:"seed"`
	Warmup     int       `json:"warmup"`
	Iterations int       `json:"iterations"`
	Average    float64   `json:"average_seconds"`
	Min        float64   `json:"min_seconds"`
	Max        float64   `json:"max_seconds"`
	StdDev     float64   `json:"stddev_seconds"`
	Elapsed    float64   `json:"elapsed_seconds"`
	Timestamp  time.Time `json:"timestamp"`
}

func WriteJSON(w io.Writer, summary RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func ExportJSON(path string, summary RunSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, summary); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
