// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// formatModules are the dependencies whose versions decide the bytes
// of a container: a different encoder or schema evaluator could change
// block CIDs.
var formatModules = []string{
	"github.com/fxamacker/cbor/v2",
	"cuelang.org/go",
	"github.com/zeebo/blake3",
	"golang.org/x/crypto",
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns Info plus the Go version, platform and the versions of
// the encoding dependencies compiled in.
func Full() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	for _, module := range Dependencies() {
		fmt.Fprintf(&builder, "\n  %s", module)
	}
	return builder.String()
}

// Dependencies lists "path version" for each encoding dependency in
// the running binary's build info. Test binaries and builds without
// module information yield nothing.
func Dependencies() []string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	var found []string
	for _, dependency := range info.Deps {
		for _, path := range formatModules {
			if dependency.Path == path {
				found = append(found, dependency.Path+" "+dependency.Version)
			}
		}
	}
	return found
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA.
func Commit() string {
	return GitCommit
}
