// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package carfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/car"
	"github.com/bureau-foundation/dagcar/lib/cid"
)

// Options configures Create.
type Options struct {
	// Compression frames the container stream. Zero is none.
	Compression Compression

	// Logger receives a debug record when the container is committed.
	// Nil discards.
	Logger *slog.Logger
}

// Writer is a container being written to disk. Nothing is visible at
// the destination path until Close succeeds.
type Writer struct {
	path        string
	tmpFile     *os.File
	compressor  io.WriteCloser
	compression Compression
	container   *car.Writer
	logger      *slog.Logger
	done        bool
}

// Create starts a container at path with a single root. The parent
// directory is created if needed.
func Create(path string, root cid.CID, options Options) (*Writer, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating container directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(directory, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp container file: %w", err)
	}

	writer := &Writer{path: path, tmpFile: tmpFile, compression: options.Compression, logger: logger}

	writer.compressor, err = compressor(tmpFile, options.Compression)
	if err != nil {
		writer.discard()
		return nil, err
	}
	writer.container, err = car.NewWriter(writer.compressor, root)
	if err != nil {
		writer.discard()
		return nil, err
	}
	return writer, nil
}

// Put appends a block. On error the writer is unusable; call Abort.
func (w *Writer) Put(b block.Block) error {
	if w.done {
		return errors.New("carfile: put on finished writer")
	}
	return w.container.Put(b)
}

// Close finishes the container and renames it into place. On any
// failure the temporary file is removed and the destination is left
// untouched.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	if err := w.container.Close(); err != nil {
		w.discard()
		return err
	}
	err := w.compressor.Close()
	w.compressor = nil
	if err != nil {
		w.discard()
		return fmt.Errorf("flushing %s frame: %w", w.compression, err)
	}
	if err := w.tmpFile.Sync(); err != nil {
		w.discard()
		return fmt.Errorf("syncing temp container: %w", err)
	}
	info, err := w.tmpFile.Stat()
	if err != nil {
		w.discard()
		return fmt.Errorf("stating temp container: %w", err)
	}
	tmpPath := w.tmpFile.Name()
	if err := w.tmpFile.Close(); err != nil {
		w.discard()
		return fmt.Errorf("closing temp container: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		w.done = true
		return fmt.Errorf("renaming container to %s: %w", w.path, err)
	}
	w.done = true

	w.logger.Debug("container written",
		"path", w.path,
		"blocks", w.container.Blocks(),
		"container_bytes", w.container.Written(),
		"file_bytes", info.Size(),
		"compression", w.compression.String(),
	)
	return nil
}

// Abort discards the container. It is safe to call after Close, where
// it does nothing.
func (w *Writer) Abort() {
	if !w.done {
		w.discard()
	}
}

func (w *Writer) discard() {
	w.done = true
	if w.compressor != nil {
		w.compressor.Close()
	}
	tmpPath := w.tmpFile.Name()
	w.tmpFile.Close()
	os.Remove(tmpPath)
}

// Drain writes every block received on blocks, in arrival order, until
// the channel is closed. After the first failure the remaining blocks
// are still received and discarded so the sender never blocks; the
// first error is returned. Drain does not close the writer.
func Drain(w *Writer, blocks <-chan block.Block) error {
	var firstErr error
	for b := range blocks {
		if firstErr != nil {
			continue
		}
		if err := w.Put(b); err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// File is an open container file. Reads return the unframed container
// bytes regardless of the compression it was written with.
type File struct {
	file         *os.File
	decompressed io.ReadCloser
	compression  Compression
	offset       int64
}

// Open opens the container at path and detects its framing.
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}
	decompressed, compression, err := decompressor(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening container %s: %w", path, err)
	}
	return &File{file: file, decompressed: decompressed, compression: compression}, nil
}

// Read implements io.Reader over the unframed container stream. A
// truncated or corrupt compressed frame is reported as a
// *car.FormatError at the offset of the first byte it could not
// produce. Errors from the file itself are returned unchanged.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.decompressed.Read(p)
	f.offset += int64(n)
	if err == nil || err == io.EOF || f.compression == CompressionNone {
		return n, err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return n, err
	}
	return n, &car.FormatError{Offset: f.offset, Err: fmt.Errorf("%s frame: %w", f.compression, err)}
}

// Compression reports the framing detected on open.
func (f *File) Compression() Compression {
	return f.compression
}

// Close releases the decompressor and the file.
func (f *File) Close() error {
	f.decompressed.Close()
	return f.file.Close()
}

// ReadLookup opens path, reads the whole container into memory and
// closes the file.
func ReadLookup(path string, options ...car.ReaderOption) (*car.BlockLookup, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lookup, err := car.Open(file, options...)
	if err != nil {
		return nil, fmt.Errorf("reading container %s: %w", path, err)
	}
	return lookup, nil
}
