// Package artifact stores rendered views in a local directory or an S3 bucket.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for artifact names that would escape the sink root
var ErrInvalidName = errors.New("invalid artifact name")

// Sink stores a named artifact and returns where it was written
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Kind() string
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// FileSink writes artifacts under a local directory
type FileSink struct {
	Dir string
}

// NewFileSink creates the directory if needed
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileSink{Dir: dir}, nil
}

func (s *FileSink) Kind() string { return "file" }

// Put writes data to Dir/name through a temporary file and a rename
func (s *FileSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(s.Dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// MultiSink writes every artifact to each sink in order and returns the locations
// joined by ", ". It stops at the first failing sink.
type MultiSink []Sink

func (m MultiSink) Kind() string {
	kinds := make([]string, len(m))
	for i, s := range m {
		kinds[i] = s.Kind()
	}
	return strings.Join(kinds, "+")
}

func (m MultiSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	locations := make([]string, 0, len(m))
	for _, s := range m {
		loc, err := s.Put(ctx, name, contentType, data)
		if err != nil {
			return strings.Join(locations, ", "), fmt.Errorf("%s sink: %w", s.Kind(), err)
		}
		locations = append(locations, loc)
	}
	return strings.Join(locations, ", "), nil
}
