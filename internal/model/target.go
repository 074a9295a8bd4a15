package model

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyTarget is returned when a target string is empty or whitespace.
var ErrEmptyTarget = errors.New("empty target")

// Target is one URL to analyze. Local files and directories use the
// file: scheme; everything else is fetched over HTTP(S).
//
// The normalized URL string is the target's identity: progress tracking
// and result aggregation key on it, so two spellings of the same target
// collapse into one entry.
type Target struct {
	// URL is the parsed, normalized target URL.
	URL *url.URL
}

// ParseTarget normalizes a raw CLI argument into a Target.
//
// Resolution rules:
//  1. Strings with an explicit http, https, or file scheme are used as-is.
//  2. Strings naming an existing file or directory become file: URLs
//     with an absolute path.
//  3. Anything else is assumed to be a web address and gets an http://
//     prefix, matching what users type ("example.com").
func ParseTarget(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyTarget
	}

	if u, err := url.Parse(raw); err == nil {
		switch u.Scheme {
		case "http", "https":
			return &Target{URL: u}, nil
		case "file":
			return &Target{URL: u}, nil
		}
	}

	// Existing local paths become file: URLs.
	if _, err := os.Stat(raw); err == nil {
		abs, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", raw, err)
		}
		return &Target{URL: &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}}, nil
	}

	u, err := url.Parse("http://" + raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid target %q", raw)
	}
	return &Target{URL: u}, nil
}

// ParseTargets normalizes a list of raw CLI arguments.
// It fails on the first invalid target. Arguments that normalize to the
// same identity collapse into one entry, keeping the first occurrence,
// so progress tracking sees each target exactly once.
func ParseTargets(raw []string) ([]*Target, error) {
	targets := make([]*Target, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		t, err := ParseTarget(r)
		if err != nil {
			return nil, err
		}
		if seen[t.String()] {
			continue
		}
		seen[t.String()] = true
		targets = append(targets, t)
	}
	return targets, nil
}

// String returns the normalized URL string, the target's identity key.
func (t *Target) String() string {
	return t.URL.String()
}

// IsLocal reports whether the target uses the file: scheme.
func (t *Target) IsLocal() bool {
	return t.URL.Scheme == "file"
}

// AllLocal reports whether every target in the list uses the file: scheme.
// An empty list is not considered local.
func AllLocal(targets []*Target) bool {
	if len(targets) == 0 {
		return false
	}
	for _, t := range targets {
		if !t.IsLocal() {
			return false
		}
	}
	return true
}

// Mixed reports whether the list contains both local and remote targets.
// Mixing file: and web targets in one run is a usage error because the
// two need different connectors and default configurations.
func Mixed(targets []*Target) bool {
	var local, remote bool
	for _, t := range targets {
		if t.IsLocal() {
			local = true
		} else {
			remote = true
		}
	}
	return local && remote
}
