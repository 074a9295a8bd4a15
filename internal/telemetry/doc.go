// Package telemetry implements consent-gated usage reporting.
//
// The gate decides per run whether anything may be sent: it tracks the
// first-run marker, records the user's consent decision durably, honors
// the HINTSCAN_TRACKING environment override, and never prompts under
// CI or on the very first invocation. Payloads carry only a pruned
// projection of the configuration and coarse numeric measurements,
// never raw targets, file paths, or user-supplied hint options.
package telemetry
