// Package model provides the core data types shared across hintscan.
// It defines severities, problems (individual findings), analysis targets,
// and per-target scan results.
package model
