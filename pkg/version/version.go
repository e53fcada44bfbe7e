// Package version holds the build-time version string, overridden via
// -ldflags at release build time (the teacher's Makefile does the same
// for pkg/version.Version).
package version

// Version is set at build time; "dev" marks an unreleased local build.
var Version = "dev"
