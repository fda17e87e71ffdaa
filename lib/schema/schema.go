// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// DefaultText is the CUE source of the built-in schema.
//
//go:embed default.cue
var DefaultText string

// ErrUnknownType is returned when a schema declares no definition
// with the requested name.
var ErrUnknownType = errors.New("schema: unknown type")

// Schema is a compiled CUE schema. CUE values are not safe for
// concurrent use, so every evaluation holds the schema's mutex.
type Schema struct {
	mu    sync.Mutex
	ctx   *cue.Context
	value cue.Value
	name  string
}

// Validator checks one value against one schema type. The error is a
// *ValidationError when the value does not conform.
type Validator func(value any) error

// Parse compiles schema text.
func Parse(text string) (*Schema, error) {
	return parse("schema.cue", []byte(text))
}

// ParseFile compiles the schema stored at path.
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return parse(path, data)
}

// Default compiles the built-in schema. DefaultText is a constant, so
// a failure here is a build defect.
func Default() *Schema {
	s, err := Parse(DefaultText)
	if err != nil {
		panic("schema: built-in schema does not compile: " + err.Error())
	}
	return s
}

func parse(name string, data []byte) (*Schema, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema %s: %s", name, details(err))
	}
	return &Schema{ctx: ctx, value: value, name: name}, nil
}

// Name is the file name the schema was compiled from.
func (s *Schema) Name() string {
	return s.name
}

// Types lists the definitions the schema declares, without their "#"
// prefix, in sorted order.
func (s *Schema) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.typesLocked()
}

// Validator returns the predicate for typeName. The name is looked up
// as a definition (#Component) first and as a regular field second.
func (s *Schema) Validator(typeName string) (Validator, error) {
	s.mu.Lock()
	definition, err := s.lookup(typeName)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return func(value any) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		encoded := s.ctx.Encode(value)
		if err := encoded.Err(); err != nil {
			return &ValidationError{Type: typeName, Err: err}
		}
		return check(typeName, definition, encoded)
	}, nil
}

// Validate checks value against typeName.
func (s *Schema) Validate(typeName string, value any) error {
	validator, err := s.Validator(typeName)
	if err != nil {
		return err
	}
	return validator(value)
}

// ValidateJSON checks a JSON document against typeName. Numbers keep
// their JSON form, so 409 is an int and 409.5 is not.
func (s *Schema) ValidateJSON(typeName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	definition, err := s.lookup(typeName)
	if err != nil {
		return err
	}
	document := s.ctx.CompileBytes(data, cue.Filename("input.json"))
	if err := document.Err(); err != nil {
		return &ValidationError{Type: typeName, Err: err}
	}
	return check(typeName, definition, document)
}

// lookup resolves typeName. The caller holds s.mu.
func (s *Schema) lookup(typeName string) (cue.Value, error) {
	candidates := []string{typeName}
	if !strings.HasPrefix(typeName, "#") {
		candidates = []string{"#" + typeName, typeName}
	}
	for _, candidate := range candidates {
		path := cue.ParsePath(candidate)
		if path.Err() != nil {
			continue
		}
		if value := s.value.LookupPath(path); value.Exists() {
			return value, nil
		}
	}
	return cue.Value{}, fmt.Errorf("%w %q in %s (declared: %s)",
		ErrUnknownType, typeName, s.name, strings.Join(s.typesLocked(), ", "))
}

func (s *Schema) typesLocked() []string {
	iter, err := s.value.Fields(cue.Definitions(true))
	if err != nil {
		return nil
	}
	var names []string
	for iter.Next() {
		if selector := iter.Selector(); selector.IsDefinition() {
			names = append(names, strings.TrimPrefix(selector.String(), "#"))
		}
	}
	sort.Strings(names)
	return names
}

func check(typeName string, definition, value cue.Value) error {
	unified := definition.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Type: typeName, Err: err}
	}
	return nil
}

// ValidationError reports a value that does not conform to a schema
// type. Err is the CUE error, which may carry several problems.
type ValidationError struct {
	Type string
	Err  error
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("value is not a valid %s: %s", err.Type, details(err.Err))
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// Problems lists each CUE error message separately.
func (err *ValidationError) Problems() []string {
	var problems []string
	for _, e := range cueerrors.Errors(err.Err) {
		problems = append(problems, e.Error())
	}
	if len(problems) == 0 {
		problems = append(problems, err.Err.Error())
	}
	return problems
}

// details flattens a CUE error list onto one line.
func details(err error) string {
	return strings.Join(strings.Fields(cueerrors.Details(err, nil)), " ")
}
