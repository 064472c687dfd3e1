// Package common provides shared interfaces and utilities used across the
// digest packages.
//
//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"errors"
	"io"
	"os"
)

// Error definitions for static error handling
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// FileSystem defines the interface for the file system operations the digest
// engine needs. It allows tests to inject open and read failures without
// touching the real file system.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(path string) (io.ReadCloser, error)
}

// DefaultFileSystem implements FileSystem using standard os package functions.
type DefaultFileSystem struct{}

// NewDefaultFileSystem creates a new DefaultFileSystem.
func NewDefaultFileSystem() *DefaultFileSystem {
	return &DefaultFileSystem{}
}

// Open opens the named file for reading.
func (fsys *DefaultFileSystem) Open(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return os.Open(path) //nolint:gosec // path comes from explicit user input
}
