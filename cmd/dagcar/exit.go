// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// exitError signals a non-zero exit status without printing an extra
// error line. The command has already written its own report, as
// verify does when a block fails its digest check.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// ExitCode is checked by main to tell a reported failure from an
// unexpected error.
func (e *exitError) ExitCode() int {
	return e.code
}
