// Package prompt provides interactive yes/no questions on the terminal.
// Recovery decisions and the telemetry consent question go through it;
// CI runs never reach this package.
package prompt
