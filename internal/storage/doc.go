// Package storage persists benchmark results as an append-only CSV log and
// exports single-run summaries as JSON.
package storage
