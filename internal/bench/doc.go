// Package bench drives update strategies through a grid.
//
// In benchmark mode the [Driver] runs a warmup phase whose timings are
// discarded, then exactly Iterations measured updates, and appends one
// result row through a [RecordWriter]. In interactive mode timing is
// disabled and every generation is handed to a [Display] until the user
// quits. The [Verifier] checks strategies against a reference over a corpus
// of boundary and random grids.
package bench
