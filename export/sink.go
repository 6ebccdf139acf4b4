package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink receives encoded export output and returns where it was put.
type Sink interface {
	// Write stores the encoded image under the given name and returns
	// its location (a file path, object URL, or similar).
	Write(ctx context.Context, name string, r io.Reader) (string, error)
}

// DirSink writes exported images as files under a directory.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing into dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// NewTempSink creates a DirSink under the OS temporary directory.
func NewTempSink() (*DirSink, error) {
	dir, err := os.MkdirTemp("", "assetpick-export-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp export directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Dir returns the sink's directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Write stores the image as a file and returns its path. A partial
// file may remain on error; callers treat the returned error, not the
// filesystem, as the truth.
func (s *DirSink) Write(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
