// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel helpers for tests of code that
// hands blocks between goroutines.
//
// [RequireSend] and [RequireReceive] wrap a channel operation in a
// select with a timeout, so a producer or consumer that stops making
// progress fails the test instead of hanging it.
//
// This package has no dagcar-internal dependencies.
package testutil
