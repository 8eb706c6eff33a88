// SPDX-License-Identifier: MIT
//
// Package build exposes build metadata injected at compile time via
// -ldflags. During development the values fall back to "dev".
package build

// Populated by the linker, e.g.
//
//	-ldflags "-X lightbeat/pkg/build.version=v0.3.0 -X lightbeat/pkg/build.commit=$(git rev-parse --short HEAD)"
var (
	name    = "lightbeat"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info describes the running binary.
type Info struct {
	Name    string
	Version string
	Commit  string
	Date    string
}

// GetInfo returns the build metadata for the running binary.
func GetInfo() Info {
	return Info{
		Name:    name,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
