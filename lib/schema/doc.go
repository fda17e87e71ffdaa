// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema is the gate records pass before they are encoded.
//
// A [Schema] is compiled CUE text. Each definition it declares
// (#Component, #Assembly) names a type; [Schema.Validator] returns a
// predicate that unifies a Go value or JSON document with that
// definition and requires the result to be concrete. Definitions are
// closed, so undeclared fields are rejected along with wrong types and
// missing fields.
//
// [Default] is the embedded schema for the rectangle assembly. Callers
// pass it (or a schema parsed from their own file) explicitly; nothing
// in this package holds global state beyond that constant text.
package schema
