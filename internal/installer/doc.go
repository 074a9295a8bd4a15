// Package installer installs hint configuration packages via npm.
// It is the side-effecting half of resource-error recovery: when the
// analyzer reports missing or incompatible packages and the user
// accepts, this package fetches them.
package installer
