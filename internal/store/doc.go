// Package store provides durable key-value storage for hintscan settings.
//
// The store persists the small amount of state that must survive across
// runs: the telemetry consent decision and the first-run marker. It is
// backed by a SQLite database in the XDG data directory.
//
// Concurrent processes share the database file without an explicit
// transaction around read-modify-write sequences; two simultaneous first
// runs could race on the first-run marker. This is an accepted
// limitation, not a designed guarantee.
package store
