// Package main provides the entry point for the hintscan CLI.
//
// hintscan analyzes web pages and local files against a configurable
// set of hints, reporting accessibility, security, and best-practice
// issues.
//
// Usage:
//
//	hintscan analyze <url-or-path>...
//	hintscan init
//
// See --help for all available options.
package main

// main is the entry point for hintscan.
func main() {
	Execute()
}
