// Package engine defines the analyzer boundary and a built-in analyzer.
//
// The orchestrator (bootstrap and runner) depends only on the Builder
// and Analyzer interfaces and on the typed AnalyzerError the boundary
// may fail with. The built-in implementation in this package provides a
// small registry of real hints so the CLI is a complete tool, but
// nothing outside this package assumes it.
package engine
