// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashFile computes the digest of the file at path. The file is
// streamed through the hash function in chunks (via io.Copy) to keep
// memory usage constant regardless of file size.
func HashFile(code Code, path string) ([]byte, error) {
	hasher, err := NewHash(code)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hasher.Sum(nil), nil
}

// FormatDigest returns the hex-encoded string representation of a
// digest, the format used in log output and CLI listings.
func FormatDigest(sum []byte) string {
	return hex.EncodeToString(sum)
}

// ParseDigest parses a hex-encoded digest and checks it has the
// output size of code.
func ParseDigest(code Code, hexString string) ([]byte, error) {
	hasher, err := NewHash(code)
	if err != nil {
		return nil, err
	}
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("parsing %s digest: %w", code, err)
	}
	if len(decoded) != hasher.Size() {
		return nil, fmt.Errorf("%s digest is %d bytes, want %d", code, len(decoded), hasher.Size())
	}
	return decoded, nil
}
