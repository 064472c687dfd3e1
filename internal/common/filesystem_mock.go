package common

import (
	"bytes"
	"io"
	"io/fs"
	"sync"
)

// MockFileSystem implements FileSystem backed by an in-memory file map.
// Open and read failures can be injected per path, which the digest tests use
// to exercise the abort paths without touching the real file system.
type MockFileSystem struct {
	mu sync.Mutex

	// Files maps path to content.
	Files map[string][]byte

	// OpenErrors maps path to the error Open should return.
	OpenErrors map[string]error

	// ReadErrors maps path to the error returned mid-stream, after
	// ReadErrorAfter[path] bytes have been served.
	ReadErrors     map[string]error
	ReadErrorAfter map[string]int

	// OpenCalls records every path passed to Open, in order.
	OpenCalls []string
}

// NewMockFileSystem creates an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:          make(map[string][]byte),
		OpenErrors:     make(map[string]error),
		ReadErrors:     make(map[string]error),
		ReadErrorAfter: make(map[string]int),
	}
}

// WithFile adds a file to the mock and returns the mock for chaining.
func (m *MockFileSystem) WithFile(path string, content []byte) *MockFileSystem {
	m.Files[path] = content
	return m
}

// Open returns a reader over the registered content, or the injected error.
func (m *MockFileSystem) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	m.OpenCalls = append(m.OpenCalls, path)
	m.mu.Unlock()

	if err, ok := m.OpenErrors[path]; ok {
		return nil, err
	}
	content, ok := m.Files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if err, ok := m.ReadErrors[path]; ok {
		return &failingReadCloser{
			Reader: io.MultiReader(
				bytes.NewReader(content[:min(m.ReadErrorAfter[path], len(content))]),
				&errReader{err: err},
			),
		}, nil
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// failingReadCloser wraps a reader whose tail returns an injected error.
type failingReadCloser struct {
	io.Reader
}

// Close implements io.Closer.
func (f *failingReadCloser) Close() error { return nil }

// errReader always returns the configured error.
type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }
