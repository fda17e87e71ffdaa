// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports what dagcar binary is running.
//
// Release builds set [GitCommit], [GitDirty], [BuildTime] and
// [Version] with -ldflags -X; development builds keep the defaults.
// [Info] is the one-line form printed by --version. [Full] adds the Go
// toolchain, the platform and the versions of the modules that decide
// container bytes (the CBOR encoder, the schema evaluator and the hash
// implementations). Builds that disagree on those may produce
// different CIDs for the same assembly.
package version
