// Package config provides configuration resolution for hintscan.
// It loads user configuration files, synthesizes defaults when none are
// found, applies environment-variable overrides and explicit CLI flags,
// and resolves the effective language for a run.
package config
