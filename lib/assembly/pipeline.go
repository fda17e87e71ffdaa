// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assembly

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/car"
	"github.com/bureau-foundation/dagcar/lib/carfile"
	"github.com/bureau-foundation/dagcar/lib/schema"
)

// ErrMismatch is returned by RoundTrip when the loaded assembly differs
// from the saved one.
var ErrMismatch = errors.New("assembly: loaded assembly differs from input")

// blockQueueDepth bounds the hand-off between the builder and the file
// writer.
const blockQueueDepth = 16

// Pipeline runs an assembly through the schema gate, the builder and a
// container file, and back.
type Pipeline struct {
	// Schema gates input before any block is encoded. Nil skips
	// validation. Save checks typed components, in which an absent
	// field is indistinguishable from its zero value; input that
	// arrives as JSON should also pass ValidateJSON so that a missing
	// field is reported as missing.
	Schema *schema.Schema

	// TypeName is the schema type an assembly must satisfy. Empty
	// means "Assembly".
	TypeName string

	// Build selects codecs, hash and encode parallelism.
	Build Options

	// Load controls verification on open.
	Load LoadOptions

	// File selects compression for saved containers.
	File carfile.Options

	// Reader bounds container parsing on open.
	Reader []car.ReaderOption

	// Logger receives one record per saved or opened container. Nil
	// discards.
	Logger *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Pipeline) typeName() string {
	if p.TypeName == "" {
		return "Assembly"
	}
	return p.TypeName
}

// Validate checks components against the pipeline's schema. Fields
// are checked by value, so a component without an id is seen with an
// empty one.
func (p *Pipeline) Validate(components []Component) error {
	if p.Schema == nil {
		return nil
	}
	validator, err := p.Schema.Validator(p.typeName())
	if err != nil {
		return err
	}
	return validator(components)
}

// ValidateJSON checks an assembly document against the pipeline's
// schema before it is decoded, so absent and mistyped fields are
// reported as they appear in the document.
func (p *Pipeline) ValidateJSON(data []byte) error {
	if p.Schema == nil {
		return nil
	}
	return p.Schema.ValidateJSON(p.typeName(), data)
}

// Save validates components, builds their blocks and writes them to a
// container at path. Blocks are handed to the file writer over a
// bounded channel in build order, root last. Nothing appears at path
// unless every step succeeds.
func (p *Pipeline) Save(path string, components []Component) (*Built, error) {
	if err := p.Validate(components); err != nil {
		return nil, err
	}

	built, err := Build(components, p.Build)
	if err != nil {
		return nil, err
	}

	fileOptions := p.File
	if fileOptions.Logger == nil {
		fileOptions.Logger = p.Logger
	}
	writer, err := carfile.Create(path, built.Root.CID(), fileOptions)
	if err != nil {
		return nil, err
	}

	queue := make(chan block.Block, blockQueueDepth)
	go func() {
		defer close(queue)
		for _, b := range built.Blocks {
			queue <- b
		}
	}()
	if err := carfile.Drain(writer, queue); err != nil {
		writer.Abort()
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	p.logger().Info("assembly saved",
		"path", path,
		"root", built.Root.CID().String(),
		"components", len(components),
	)
	return built, nil
}

// Open reads the container at path and loads its assembly.
func (p *Pipeline) Open(path string) ([]Component, error) {
	lookup, err := carfile.ReadLookup(path, p.Reader...)
	if err != nil {
		return nil, err
	}
	components, err := Load(lookup, p.Load)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	p.logger().Info("assembly loaded",
		"path", path,
		"root", lookup.Roots()[0].String(),
		"components", len(components),
		"blocks", lookup.Len(),
	)
	return components, nil
}

// RoundTrip saves components to path, opens the result and compares.
// It returns the loaded assembly; a difference from the input is
// ErrMismatch.
func (p *Pipeline) RoundTrip(path string, components []Component) ([]Component, error) {
	if _, err := p.Save(path, components); err != nil {
		return nil, err
	}
	loaded, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	if !Equal(components, loaded) {
		return loaded, fmt.Errorf("%w: %s", ErrMismatch, describeMismatch(components, loaded))
	}
	return loaded, nil
}

func describeMismatch(want, got []Component) string {
	if len(want) != len(got) {
		return fmt.Sprintf("saved %d components, loaded %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Sprintf("component %d: saved %+v, loaded %+v", i, want[i], got[i])
		}
	}
	return "no difference"
}
