// Package runner executes one analysis run end to end.
//
// The runner feeds the targets to a ready analyzer, consumes its
// progress event stream, assembles per-target results with their own
// wall-clock timings, renders them with the configured formatters, and
// derives the run verdict. Targets are analyzed concurrently, so the
// progress consumer tolerates interleaved events and keys every timing
// on the event's own target.
package runner
