// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"sort"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Code is a multihash function code from the multicodec table.
type Code uint64

// Multicodec codes for the registered hash functions. These values are
// protocol constants: they are embedded in every CID.
const (
	SHA2_256    Code = 0x12
	BLAKE3      Code = 0x1e
	BLAKE2B_256 Code = 0xb220
)

// ErrUnsupported is returned for a code with no registered provider.
var ErrUnsupported = errors.New("digest: unsupported hash function")

// Constructor returns a fresh hash.Hash for one digest computation.
type Constructor func() hash.Hash

type provider struct {
	name    string
	newHash Constructor
}

var (
	registryMu sync.RWMutex
	registry   = map[Code]provider{}
)

func init() {
	Register(SHA2_256, "sha2-256", sha256.New)
	Register(BLAKE3, "blake3", func() hash.Hash { return blake3.New() })
	Register(BLAKE2B_256, "blake2b-256", func() hash.Hash {
		// New256 only fails for keys longer than 64 bytes.
		hasher, err := blake2b.New256(nil)
		if err != nil {
			panic("digest: BLAKE2b initialization failed: " + err.Error())
		}
		return hasher
	})
}

// Register installs newHash as the provider for code. Registering an
// existing code replaces the provider.
func Register(code Code, name string, newHash Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[code] = provider{name: name, newHash: newHash}
}

// NewHash returns a streaming hasher for code.
func NewHash(code Code) (hash.Hash, error) {
	registryMu.RLock()
	p, ok := registry[code]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: code %#x", ErrUnsupported, uint64(code))
	}
	return p.newHash(), nil
}

// Sum returns the digest of data under code.
func Sum(code Code, data []byte) ([]byte, error) {
	hasher, err := NewHash(code)
	if err != nil {
		return nil, err
	}
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

// Supported reports whether code has a registered provider.
func Supported(code Code) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[code]
	return ok
}

// ParseCode resolves a hash function name ("sha2-256", "blake3",
// "blake2b-256") to its code.
func ParseCode(name string) (Code, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for code, p := range registry {
		if p.name == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// Names returns the registered function names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, p := range registry {
		names = append(names, p.name)
	}
	sort.Strings(names)
	return names
}

// String returns the registered name of the code, or its hex value.
func (code Code) String() string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if p, ok := registry[code]; ok {
		return p.name
	}
	return fmt.Sprintf("hash(%#x)", uint64(code))
}
