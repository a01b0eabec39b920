// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package version

var (
	// Version follows semver. Development builds carry a `-dev.N` pre-release tag
	// that is bumped after every release.
	Version    = "0.1.0-dev.0"
	CommitHash = ""
)

// UserAgent is sent with every request to the Prometheus server.
func UserAgent() string {
	return "promfdw/" + Version
}
